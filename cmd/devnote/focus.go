package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/cli"
)

func newFocusCommand() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a focus timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("minutes") {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				minutes = cfg.Timer.FocusMinutes
			}
			if minutes <= 0 {
				return fmt.Errorf("--minutes must be positive")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			cli.RunFocus(ctx, cmd.OutOrStdout(), time.Duration(minutes)*time.Minute)
			return nil
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 25, "Length of the session; defaults to timer.focus_minutes of the config")
	return cmd
}
