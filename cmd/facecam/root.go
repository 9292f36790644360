package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"facecam/remote/internal/config"
)

// Version is the application version.
const Version = "0.1.0"

var (
	cfg *config.Config

	flagHost     string
	flagURL      string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "facecam",
	Short: "Remote control for an ESP32 face detection camera",
	Long: `facecam - Remote control for an ESP32 face detection camera

Connects to the camera's websocket (port 81), switches it between streaming,
face detection and face recognition, and manages the roster of captured
faces.

Environment Variables:
  FACECAM_HOST           Camera host name or address
  FACECAM_URL            Full websocket URL (overrides FACECAM_HOST)
  FACECAM_MONITOR_ADDR   Serve status, frames and commands over HTTP
  FACECAM_MQTT_BROKER    Mirror status and roster to an MQTT broker
  FACECAM_LOG_LEVEL      trace, debug, info, warn, error

A .env file in the working directory is read if present.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		applyFlags(cfg, flagHost, flagURL, flagLogLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}

		setupLogging(cfg.LogLevel)
		return nil
	},
}

// applyFlags overlays non-empty flag values on cfg. --url wins over --host.
func applyFlags(cfg *config.Config, host, url, level string) {
	if host != "" {
		cfg.URL = config.DeviceURL(host)
	}
	if url != "" {
		cfg.URL = url
	}
	if level != "" {
		cfg.LogLevel = level
	}
}

// setupLogging sends logs to stderr; stdout may carry frames.
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	}).With().Timestamp().Logger()
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "camera host (port 81 implied)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "camera websocket URL, e.g. ws://192.168.1.40:81/")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (default info)")
}

// waitOrDone blocks for d, or until ctx is done.
func waitOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
