package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/cli"
	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/review"
)

func newReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review logs that are likely forgotten",
	}
	cmd.AddCommand(
		newReviewQueueCommand(),
		newReviewDueCommand(),
		newReviewRandomCommand(),
		newReviewRateCommand(),
		newReviewSessionCommand(),
	)
	return cmd
}

// reviewLogs returns the logs of projectID, or every log when projectID is empty.
func reviewLogs(store *journal.Store, projectID string) []journal.LogRecord {
	if projectID == "" {
		return store.Logs()
	}
	return store.LogsByProject(projectID)
}

func newReviewQueueCommand() *cobra.Command {
	var (
		limit     int
		projectID string
	)
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the logs with the highest forget score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if !cmd.Flags().Changed("limit") {
					limit = j.Config.Review.Limit
				}
				queue := review.ReviewQueue(reviewLogs(j.Store, projectID), clock.System{}.Now(), limit)
				cli.PrintQueue(cmd.OutOrStdout(), queue)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", review.DefaultQueueLimit, "Maximum number of logs; defaults to review.limit of the config")
	cmd.Flags().StringVar(&projectID, "project", "", "Only consider logs of this project")
	return cmd
}

func newReviewDueCommand() *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show the logs whose next review date has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				cli.PrintDue(cmd.OutOrStdout(), review.Due(reviewLogs(j.Store, projectID), clock.System{}.Now()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Only consider logs of this project")
	return cmd
}

func newReviewRandomCommand() *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Pick a random log to review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				log, ok := review.NewSampler(nil).Pick(reviewLogs(j.Store, projectID))
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No logs to pick from.")
					return nil
				}
				cli.PrintLog(cmd.OutOrStdout(), log)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Only pick from this project")
	return cmd
}

func newReviewRateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <log id> <understanding>",
		Short: "Record review feedback (1-5) for a log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			understanding, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: got %q", review.ErrInvalidUnderstanding, args[1])
			}
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				now := clock.System{}.Now()
				log, err := j.Store.ModifyLog(cmd.Context(), args[0], func(l journal.LogRecord) (journal.LogRecord, error) {
					return review.ApplyReview(l, understanding, now)
				})
				if err != nil {
					return fmt.Errorf("store.ModifyLog() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "next review of %s on %s\n", log.ID, log.NextReviewAt.Format("2006-01-02"))
				return nil
			})
		},
	}
}

func newReviewSessionCommand() *cobra.Command {
	var (
		limit     int
		projectID string
		due       bool
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Rate logs one by one, starting with the most likely forgotten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if !cmd.Flags().Changed("limit") {
					limit = j.Config.Review.Limit
				}
				if limit <= 0 {
					limit = review.DefaultQueueLimit
				}
				now := clock.System{}.Now()
				logs := reviewLogs(j.Store, projectID)

				var candidates []journal.LogRecord
				if due {
					candidates = review.Due(logs, now)
					if len(candidates) > limit {
						candidates = candidates[:limit]
					}
				} else {
					for _, scored := range review.ReviewQueue(logs, now, limit) {
						candidates = append(candidates, scored.Log)
					}
				}

				session := cli.NewReviewCLI(j.Store, clock.System{}, candidates, cmd.InOrStdin(), cmd.OutOrStdout())
				return cli.Run(cmd.Context(), session)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", review.DefaultQueueLimit, "Maximum number of logs; defaults to review.limit of the config")
	cmd.Flags().StringVar(&projectID, "project", "", "Only review logs of this project")
	cmd.Flags().BoolVar(&due, "due", false, "Review logs by due date instead of forget score")
	return cmd
}
