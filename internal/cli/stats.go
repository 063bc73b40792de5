package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/devnote/internal/statistics"
)

// PrintStats renders the dashboard metrics.
func PrintStats(w io.Writer, stats statistics.DashboardStats) {
	bold := color.New(color.Bold)

	bold.Fprintln(w, "Dashboard")
	fmt.Fprintln(w, "=========")
	fmt.Fprintf(w, "%-14s %d\n", "Total logs:", stats.TotalLogs)
	fmt.Fprintf(w, "%-14s %d\n", "Reading:", stats.TotalReading)
	fmt.Fprintf(w, "%-14s %d\n", "Coding:", stats.TotalCoding)
	fmt.Fprintf(w, "%-14s %d\n", "This week:", stats.WeeklyLogs)
	fmt.Fprintf(w, "%-14s %d\n", "This month:", stats.MonthlyLogs)
	fmt.Fprintf(w, "%-14s %.1f\n", "Avg level:", stats.AvgLevel)
	fmt.Fprintf(w, "%-14s %d\n", "Reviewed:", stats.ReviewedLogs)

	streak := fmt.Sprintf("%d days", stats.Streak)
	if stats.Streak > 0 {
		streak = color.New(color.FgGreen).Sprint(streak)
	}
	fmt.Fprintf(w, "%-14s %s\n", "Streak:", streak)

	if len(stats.TopTags) == 0 {
		return
	}
	fmt.Fprintln(w)
	bold.Fprintln(w, "Top tags")
	for _, t := range stats.TopTags {
		fmt.Fprintf(w, "  %-20s %d\n", t.Tag, t.Count)
	}
}

// PrintReport renders the monthly report.
func PrintReport(w io.Writer, result statistics.PeriodResult) {
	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No logs found for the specified period.")
		return
	}

	fmt.Fprintln(w, "Journal Report")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-8s  %-8s  %-11s  %-4s\n", "Period", "Created", "Reviewed", "Active days", "Tags")
	fmt.Fprintf(w, "%-10s  %-8s  %-8s  %-11s  %-4s\n", "------", "-------", "--------", "-----------", "----")

	for _, s := range result.Periods {
		fmt.Fprintf(w, "%-10s  %-8d  %-8d  %-11d  %-4d\n",
			s.Period,
			s.CreatedCount,
			s.ReviewedLast,
			s.ActiveDays,
			s.TagsUnique,
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-8d  %-8d  %-11d  %-4d\n",
		"Totals:",
		result.Aggregate.CreatedCount,
		result.Aggregate.ReviewedLast,
		result.Aggregate.ActiveDays,
		result.Aggregate.TagsUnique,
	)
}

// WriteReportMarkdown writes the report as a markdown document.
func WriteReportMarkdown(w io.Writer, result statistics.PeriodResult) {
	fmt.Fprintln(w, "# Journal Report")
	fmt.Fprintln(w)
	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No logs found for the specified period.")
		return
	}

	fmt.Fprintln(w, "| Period | Created | Reviewed | Active days | Tags |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, s := range result.Periods {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d |\n", s.Period, s.CreatedCount, s.ReviewedLast, s.ActiveDays, s.TagsUnique)
	}
	fmt.Fprintf(w, "| **Totals** | %d | %d | %d | %d |\n",
		result.Aggregate.CreatedCount,
		result.Aggregate.ReviewedLast,
		result.Aggregate.ActiveDays,
		result.Aggregate.TagsUnique,
	)
}
