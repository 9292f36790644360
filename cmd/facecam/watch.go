package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"facecam/remote/internal/console"
	"facecam/remote/internal/monitor"
)

var (
	watchFramesToStdout bool
	watchNoConsole      bool
	watchMonitorAddr    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay connected and control the camera interactively",
	Long: `Stay connected to the camera. Commands are read from stdin (type 'help').

With --stdout the JPEG frames are written to stdout:

  facecam watch --stdout --no-console | ffplay -f mjpeg -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchFramesToStdout, "stdout", false, "write frames to stdout")
	watchCmd.Flags().BoolVar(&watchNoConsole, "no-console", false, "do not read commands from stdin")
	watchCmd.Flags().StringVar(&watchMonitorAddr, "monitor", "", "HTTP monitor listen address (overrides FACECAM_MONITOR_ADDR)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var frameOut io.Writer
	consoleOut := io.Writer(os.Stdout)
	if watchFramesToStdout {
		frameOut = os.Stdout
		consoleOut = os.Stderr
	}

	r, err := dial(ctx, cfg, frameOut, cancel)
	if err != nil {
		return err
	}
	defer r.Close()

	addr := cfg.MonitorAddr
	if watchMonitorAddr != "" {
		addr = watchMonitorAddr
	}
	var mon *monitor.Server
	if addr != "" {
		mon = monitor.NewServer(addr, monitor.NewRouter(r.viewer, r.surface, r.registry))
		mon.Start()
	}

	if !watchNoConsole {
		go func() {
			if err := console.New(os.Stdin, consoleOut, r.viewer).Run(ctx); err != nil {
				log.Warn().Err(err).Msg("console")
			}
			cancel()
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if mon != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		defer stop()
		if err := mon.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("monitor shutdown")
		}
	}
	return nil
}
