package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	rosterWait time.Duration
	rosterJSON bool
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the faces stored on the camera",
	Long: `Connect, collect the faces the camera announces for --wait, and print
them in the order received. Duplicate names are printed as sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoster(cmd.Context())
	},
}

func init() {
	rosterCmd.Flags().DurationVar(&rosterWait, "wait", 2*time.Second, "how long to collect roster announcements")
	rosterCmd.Flags().BoolVar(&rosterJSON, "json", false, "print a JSON array")
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	r, err := dial(ctx, cfg, nil, cancel)
	if err != nil {
		return err
	}
	defer r.Close()

	waitOrDone(ctx, rosterWait)

	entries := r.viewer.Roster()
	if rosterJSON {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name
		}
		return json.NewEncoder(os.Stdout).Encode(names)
	}

	if len(entries) == 0 {
		fmt.Println("No faces stored on the camera.")
		return nil
	}
	for i, e := range entries {
		fmt.Printf("%d. %s\n", i+1, e.Name)
	}
	return nil
}
