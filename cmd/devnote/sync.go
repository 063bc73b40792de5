package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/remote"
)

func newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push or pull the journal to the remote document store",
	}
	cmd.AddCommand(newSyncPushCommand(), newSyncPullCommand())
	return cmd
}

// withSyncer runs fn with the open journal and a syncer for the configured remote key.
func withSyncer(cmd *cobra.Command, fn func(j *bootstrap.Journal, syncer *remote.Syncer) error) error {
	return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
		client, err := bootstrap.NewRemoteClient(j.Config)
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Close()
		}()
		return fn(j, remote.NewSyncer(client, j.Config.Remote.Key))
	})
}

func newSyncPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Replace the remote copy with the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSyncer(cmd, func(j *bootstrap.Journal, syncer *remote.Syncer) error {
				if err := syncer.Push(cmd.Context(), j.Store.Root()); err != nil {
					return fmt.Errorf("syncer.Push() > %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "pushed the journal")
				return nil
			})
		},
	}
}

func newSyncPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local journal with the remote copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSyncer(cmd, func(j *bootstrap.Journal, syncer *remote.Syncer) error {
				root, updatedAt, err := syncer.Pull(cmd.Context())
				if err != nil {
					return fmt.Errorf("syncer.Pull() > %w", err)
				}
				if err := j.Store.Replace(cmd.Context(), root); err != nil {
					return fmt.Errorf("store.Replace() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pulled the journal pushed at %s\n", updatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
}
