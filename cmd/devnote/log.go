package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/cli"
	"github.com/at-ishikawa/devnote/internal/journal"
)

func newLogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage journal logs",
	}
	cmd.AddCommand(
		newLogListCommand(),
		newLogShowCommand(),
		newLogAddCommand(),
		newLogEditCommand(),
		newLogDeleteCommand(),
	)
	return cmd
}

func newLogListCommand() *cobra.Command {
	var projectID, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logs, optionally filtered by project and a search query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				cli.PrintLogs(cmd.OutOrStdout(), j.Store.Search(projectID, query))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Only list logs of this project")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search over title, content and tags")
	return cmd
}

func newLogShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <log id>",
		Short: "Show a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				log, ok := j.Store.Log(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", journal.ErrLogNotFound, args[0])
				}
				cli.PrintLog(cmd.OutOrStdout(), log)
				return nil
			})
		},
	}
}

func newLogAddCommand() *cobra.Command {
	var input journal.NewLog
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Write a new log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Title = args[0]
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				log, err := j.Store.CreateLog(cmd.Context(), input)
				if err != nil {
					return fmt.Errorf("store.CreateLog() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created log %s\n", log.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.ProjectID, "project", "", "Project id (required)")
	cmd.Flags().StringVar(&input.Type, "type", journal.LogTypeCoding, "Log type, e.g. reading, coding or idea")
	cmd.Flags().StringVar(&input.Content, "content", "", "Log body")
	cmd.Flags().StringSliceVar(&input.Tags, "tags", nil, "Comma separated tags")
	cmd.Flags().IntVar(&input.Level, "level", journal.DefaultLevel, "Self rated understanding (1-5)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newLogEditCommand() *cobra.Command {
	var (
		logType, title, content string
		tags                    []string
		level                   int
	)
	cmd := &cobra.Command{
		Use:   "edit <log id>",
		Short: "Change fields of a log. Only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var update journal.LogUpdate
			if flags.Changed("type") {
				update.Type = &logType
			}
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("content") {
				update.Content = &content
			}
			if flags.Changed("tags") {
				update.Tags = append([]string{}, tags...)
			}
			if flags.Changed("level") {
				update.Level = &level
			}

			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				log, err := j.Store.UpdateLog(cmd.Context(), args[0], update)
				if err != nil {
					return fmt.Errorf("store.UpdateLog() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated log %s\n", log.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&logType, "type", "", "Log type")
	cmd.Flags().StringVar(&title, "title", "", "Log title")
	cmd.Flags().StringVar(&content, "content", "", "Log body")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma separated tags, replacing the current ones")
	cmd.Flags().IntVar(&level, "level", 0, "Self rated understanding (1-5)")
	return cmd
}

func newLogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <log id>",
		Short: "Delete a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if err := j.Store.DeleteLog(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("store.DeleteLog() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted log %s\n", args[0])
				return nil
			})
		},
	}
}
