package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/cli"
	"github.com/at-ishikawa/devnote/internal/journal"
)

func newSnippetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "Manage code snippets",
	}
	cmd.AddCommand(
		newSnippetListCommand(),
		newSnippetAddCommand(),
		newSnippetEditCommand(),
		newSnippetDeleteCommand(),
	)
	return cmd
}

func newSnippetListCommand() *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the snippets of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				cli.PrintSnippets(cmd.OutOrStdout(), j.Store.SnippetsByProject(projectID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// readCode returns the content of path when it is set and code otherwise.
func readCode(code, path string) (string, error) {
	if path == "" {
		return code, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return string(data), nil
}

func newSnippetAddCommand() *cobra.Command {
	var projectID, language, code, file string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Save a code snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(code, file)
			if err != nil {
				return err
			}
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				snippet, err := j.Store.CreateSnippet(cmd.Context(), projectID, args[0], language, code)
				if err != nil {
					return fmt.Errorf("store.CreateSnippet() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created snippet %s\n", snippet.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (required)")
	cmd.Flags().StringVar(&language, "language", "", "Language of the snippet")
	cmd.Flags().StringVar(&code, "code", "", "Snippet code")
	cmd.Flags().StringVar(&file, "file", "", "Read the snippet code from a file")
	cmd.MarkFlagsMutuallyExclusive("code", "file")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newSnippetEditCommand() *cobra.Command {
	var title, language, code, file string
	cmd := &cobra.Command{
		Use:   "edit <snippet id>",
		Short: "Change fields of a snippet. Only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var update journal.SnippetUpdate
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("language") {
				update.Language = &language
			}
			if flags.Changed("code") || flags.Changed("file") {
				newCode, err := readCode(code, file)
				if err != nil {
					return err
				}
				update.Code = &newCode
			}

			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				snippet, err := j.Store.UpdateSnippet(cmd.Context(), args[0], update)
				if err != nil {
					return fmt.Errorf("store.UpdateSnippet() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated snippet %s\n", snippet.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Snippet title")
	cmd.Flags().StringVar(&language, "language", "", "Language of the snippet")
	cmd.Flags().StringVar(&code, "code", "", "Snippet code")
	cmd.Flags().StringVar(&file, "file", "", "Read the snippet code from a file")
	cmd.MarkFlagsMutuallyExclusive("code", "file")
	return cmd
}

func newSnippetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snippet id>",
		Short: "Delete a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if err := j.Store.DeleteSnippet(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("store.DeleteSnippet() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted snippet %s\n", args[0])
				return nil
			})
		},
	}
}
