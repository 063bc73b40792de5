package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/datasync"
	"github.com/at-ishikawa/devnote/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCmd.AddCommand(newMigrateJournalCommand())
	migrateCmd.AddCommand(newMigrateImportCommand())

	return migrateCmd
}

func newMigrateJournalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "Upgrade the stored journal to the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the journal creates the database schema and migrates the loaded document.
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				root := j.Store.Root()
				if err := j.Gateway.Save(cmd.Context(), root); err != nil {
					return fmt.Errorf("gateway.Save() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "journal is at schema version %d\n", root.SchemaVersion)
				return nil
			})
		},
	}
}

func newMigrateImportCommand() *cobra.Command {
	var (
		fromDir        string
		dryRun         bool
		updateExisting bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import snapshots written by the file driver into the configured storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			destination, closeDestination, err := bootstrap.OpenStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("bootstrap.OpenStorage() > %w", err)
			}
			defer func() { _ = closeDestination() }()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(storage.NewFileStorage(fromDir), destination, out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.ImportSlots(ctx, []string{cfg.Storage.PrimaryKey, cfg.Storage.BackupKey}, opts)
			if err != nil {
				return fmt.Errorf("import slots: %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			fmt.Fprintf(out, "  Snapshots:  %d new, %d skipped, %d updated, %d missing, %d corrupt\n",
				result.SlotsNew, result.SlotsSkipped, result.SlotsUpdated, result.SlotsMissing, result.SlotsCorrupt)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDir, "from-dir", "", "Directory holding the snapshot files (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the storage")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Overwrite snapshots that already exist")
	_ = cmd.MarkFlagRequired("from-dir")
	return cmd
}
