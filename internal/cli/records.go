package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/statistics"
)

const dateLayout = "2006-01-02"

// PrintProjects lists projects with their log counts.
func PrintProjects(w io.Writer, breakdown statistics.ProjectBreakdown) {
	if len(breakdown.Projects) == 0 {
		fmt.Fprintln(w, "No projects yet.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-5s  %s\n", "ID", "Logs", "Name")
	for _, p := range breakdown.Projects {
		fmt.Fprintf(w, "%-36s  %-5d  %s\n", p.ProjectID, p.Logs, p.Name)
	}
	if breakdown.Orphaned > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d logs belong to deleted projects\n", breakdown.Orphaned)
	}
}

func PrintLogs(w io.Writer, logs []journal.LogRecord) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No logs found.")
		return
	}
	fmt.Fprintf(w, "%-10s  %-36s  %-8s  %-5s  %s\n", "Created", "ID", "Type", "Level", "Title")
	for _, l := range logs {
		fmt.Fprintf(w, "%-10s  %-36s  %-8s  %-5d  %s\n", l.CreatedAt.Format(dateLayout), l.ID, l.Type, l.EffectiveLevel(), l.Title)
	}
}

// PrintLog shows every field of one log.
func PrintLog(w io.Writer, log journal.LogRecord) {
	color.New(color.Bold).Fprintln(w, log.Title)
	fmt.Fprintf(w, "id:        %s\n", log.ID)
	fmt.Fprintf(w, "project:   %s\n", log.ProjectID)
	fmt.Fprintf(w, "type:      %s\n", log.Type)
	fmt.Fprintf(w, "level:     %d\n", log.EffectiveLevel())
	fmt.Fprintf(w, "tags:      %s\n", strings.Join(log.Tags, ", "))
	fmt.Fprintf(w, "created:   %s\n", log.CreatedAt.Format(dateLayout))
	fmt.Fprintf(w, "reviews:   %d\n", log.ReviewCount)
	if log.LastReviewedAt != nil {
		fmt.Fprintf(w, "reviewed:  %s\n", log.LastReviewedAt.Format(dateLayout))
	}
	if log.NextReviewAt != nil {
		fmt.Fprintf(w, "next:      %s\n", log.NextReviewAt.Format(dateLayout))
	}
	if log.Content != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, log.Content)
	}
}

func PrintSnippets(w io.Writer, snippets []journal.SnippetRecord) {
	if len(snippets) == 0 {
		fmt.Fprintln(w, "No snippets found.")
		return
	}
	for _, s := range snippets {
		color.New(color.Bold).Fprintf(w, "%s (%s) %s\n", s.Title, s.Language, s.ID)
		fmt.Fprintln(w, s.Code)
		fmt.Fprintln(w)
	}
}

func PrintTags(w io.Writer, tags []string) {
	for _, tag := range tags {
		fmt.Fprintln(w, tag)
	}
}
