package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/viewer"
)

var sendWait time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <stream|detect|recognise|capture NAME|remove NAME|delete_all>",
	Short: "Send one command to the camera and exit",
	Long: `Send one command to the camera, print status text it reports for
--wait, then exit. Commands are fire-and-forget: the camera does not
acknowledge them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend(cmd.Context(), args)
	},
}

func init() {
	sendCmd.Flags().DurationVar(&sendWait, "wait", time.Second, "how long to stay connected after sending")
	rootCmd.AddCommand(sendCmd)
}

func runSend(parent context.Context, args []string) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	r, err := dial(ctx, cfg, nil, cancel)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := sendCommand(r.viewer, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	log.Info().Str("command", args[0]).Msg("sent")

	waitOrDone(ctx, sendWait)
	if s := r.viewer.Snapshot(); s.Status != "" {
		fmt.Println(s.Status)
	}
	return nil
}

func sendCommand(v *viewer.Viewer, verb, arg string) error {
	switch strings.ToLower(verb) {
	case "capture":
		return v.CaptureAs(arg)
	case "remove":
		if arg == "" {
			return fmt.Errorf("remove needs a name: %w", domain.ErrInvalidArgument)
		}
		return v.Remove(arg)
	case "delete_all":
		return v.DeleteAll()
	default:
		mode, err := domain.ParseMode(verb)
		if err != nil {
			return err
		}
		return v.RequestMode(mode)
	}
}
