package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/cli"
	"github.com/at-ishikawa/devnote/internal/statistics"
)

func newProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCommand(),
		newProjectAddCommand(),
		newProjectDeleteCommand(),
	)
	return cmd
}

func newProjectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with their log counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				cli.PrintProjects(cmd.OutOrStdout(), statistics.CountByProject(j.Store.Projects(), j.Store.Logs()))
				return nil
			})
		},
	}
}

func newProjectAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				project, err := j.Store.CreateProject(cmd.Context(), args[0], description)
				if err != nil {
					return fmt.Errorf("store.CreateProject() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created project %s\n", project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	return cmd
}

func newProjectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project id>",
		Short: "Delete a project together with its logs and snippets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if err := j.Store.DeleteProject(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("store.DeleteProject() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted project %s\n", args[0])
				return nil
			})
		},
	}
}
