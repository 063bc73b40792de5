package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/cli"
	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/pdf"
	"github.com/at-ishikawa/devnote/internal/statistics"
)

type WindowFlag string

// Set implements pflag.Value.
func (w *WindowFlag) Set(v string) error {
	switch v {
	case string(WindowCalendar):
		*w = WindowCalendar
	case string(WindowRolling):
		*w = WindowRolling
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, WindowCalendar, WindowRolling)
	}
	return nil
}

// String implements pflag.Value.
func (w *WindowFlag) String() string {
	if w == nil {
		return ""
	}
	return string(*w)
}

// Type implements pflag.Value.
func (w *WindowFlag) Type() string {
	return "WindowFlag"
}

var (
	_ pflag.Value = (*WindowFlag)(nil)
)

const (
	WindowCalendar WindowFlag = WindowFlag(statistics.WindowCalendar)
	WindowRolling  WindowFlag = WindowFlag(statistics.WindowRolling)
)

func newStatsCommand() *cobra.Command {
	var window WindowFlag
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				loc, err := bootstrap.Location(j.Config)
				if err != nil {
					return err
				}
				opts := bootstrap.StatsOptions(j.Config)
				if window != "" {
					opts.Window = statistics.Window(window)
				}
				now := clock.System{}.Now().In(loc)
				cli.PrintStats(cmd.OutOrStdout(), statistics.ComputeStatsWithOptions(j.Store.Logs(), now, opts))
				return nil
			})
		},
	}
	cmd.Flags().Var(&window, "window", "Week and month bounds. Options: calendar, rolling; defaults to stats.window of the config")
	return cmd
}

func newReportCommand() *cobra.Command {
	var year, month int
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of journal activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				loc, err := bootstrap.Location(j.Config)
				if err != nil {
					return err
				}
				result := statistics.CalculatePeriods(j.Store.Logs(), loc, year, month)
				if output == "" {
					cli.PrintReport(cmd.OutOrStdout(), result)
					return nil
				}
				path, err := writeReport(output, result)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote the report to %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a .md or .pdf file instead of stdout")

	return cmd
}

func writeReport(output string, result statistics.PeriodResult) (string, error) {
	var buf bytes.Buffer
	cli.WriteReportMarkdown(&buf, result)

	switch filepath.Ext(output) {
	case ".md":
		if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
			return "", fmt.Errorf("os.WriteFile(%s) > %w", output, err)
		}
		return output, nil
	case ".pdf":
		path, err := pdf.Render(buf.Bytes(), output)
		if err != nil {
			return "", fmt.Errorf("pdf.Render() > %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported report file %s, use .md or .pdf", output)
	}
}

func newTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				cli.PrintTags(cmd.OutOrStdout(), j.Store.AllTags())
				return nil
			})
		},
	}
}
