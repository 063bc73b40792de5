package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
)

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the primary snapshot to the backup slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if err := j.NewBackupGuardian(slog.Default()).BackupOnce(cmd.Context()); err != nil {
					return fmt.Errorf("guardian.BackupOnce() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s\n", j.Config.Storage.PrimaryKey, j.Config.Storage.BackupKey)
				return nil
			})
		},
	}
}
