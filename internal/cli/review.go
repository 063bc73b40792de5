package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/persistence"
	"github.com/at-ishikawa/devnote/internal/review"
)

// ReviewCLI walks through a list of logs and records the understanding typed for each one.
type ReviewCLI struct {
	store        *journal.Store
	clock        clock.Clock
	logs         []journal.LogRecord
	position     int
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewReviewCLI(store *journal.Store, clk clock.Clock, logs []journal.LogRecord, stdin io.Reader, stdout io.Writer) *ReviewCLI {
	return &ReviewCLI{
		store:        store,
		clock:        clk,
		logs:         logs,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
	}
}

// Reviewed returns how many logs received feedback so far.
func (cli *ReviewCLI) Reviewed() int {
	return cli.position
}

// Session shows the next log and waits for a rating. An invalid rating asks again for the same log.
func (cli *ReviewCLI) Session(ctx context.Context) error {
	if cli.position >= len(cli.logs) {
		fmt.Fprintf(cli.stdoutWriter, "Reviewed %d logs.\n", cli.position)
		return errEnd
	}
	log := cli.logs[cli.position]

	fmt.Fprintln(cli.stdoutWriter)
	cli.bold.Fprintf(cli.stdoutWriter, "[%d/%d] %s\n", cli.position+1, len(cli.logs), log.Title)
	if log.Content != "" {
		fmt.Fprintln(cli.stdoutWriter, log.Content)
	}
	if len(log.Tags) > 0 {
		fmt.Fprintf(cli.stdoutWriter, "tags: %s\n", strings.Join(log.Tags, ", "))
	}
	fmt.Fprint(cli.stdoutWriter, "Understanding (1-5, s to skip, q to quit): ")

	input, err := cli.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdinReader.ReadString() > %w", err)
	}
	answer := strings.TrimSpace(input)
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(cli.stdoutWriter)
		return errEnd
	}

	switch strings.ToLower(answer) {
	case "q", "quit":
		fmt.Fprintf(cli.stdoutWriter, "Reviewed %d logs.\n", cli.position)
		return errEnd
	case "s", "skip":
		cli.logs = append(cli.logs[:cli.position:cli.position], cli.logs[cli.position+1:]...)
		return nil
	}

	understanding := review.ParseUnderstanding(answer)
	now := cli.clock.Now()
	updated, err := cli.store.ModifyLog(ctx, log.ID, func(l journal.LogRecord) (journal.LogRecord, error) {
		return review.ApplyReview(l, understanding, now)
	})
	switch {
	case errors.Is(err, review.ErrInvalidUnderstanding):
		color.New(color.FgRed).Fprintf(cli.stdoutWriter, "%s\n", review.ErrInvalidUnderstanding)
		return nil
	case errors.Is(err, persistence.ErrStorageUnavailable):
		color.New(color.FgYellow).Fprintf(cli.stdoutWriter, "warning: feedback kept in memory only: %v\n", err)
	case err != nil:
		return fmt.Errorf("store.ModifyLog() > %w", err)
	}

	color.New(color.FgGreen).Fprintf(cli.stdoutWriter, "next review on %s\n", updated.NextReviewAt.Format("2006-01-02"))
	cli.position++
	return nil
}

// PrintQueue prints the queue with the forget score of every log.
func PrintQueue(w io.Writer, queue []review.ScoredLog) {
	if len(queue) == 0 {
		fmt.Fprintln(w, "Nothing to review.")
		return
	}
	fmt.Fprintf(w, "%-6s  %-36s  %-5s  %s\n", "Score", "ID", "Level", "Title")
	for _, s := range queue {
		score := fmt.Sprintf("%-6d", s.ForgetScore)
		if s.ForgetScore >= highForgetScore {
			score = color.New(color.FgRed).Sprint(score)
		}
		fmt.Fprintf(w, "%s  %-36s  %-5d  %s\n", score, s.Log.ID, s.Log.EffectiveLevel(), s.Log.Title)
	}
}

// highForgetScore marks logs that have not been seen for about a month at the default understanding.
const highForgetScore = 90

// PrintDue prints the logs whose next review date has passed.
func PrintDue(w io.Writer, logs []journal.LogRecord) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No logs are due.")
		return
	}
	fmt.Fprintf(w, "%-10s  %-36s  %s\n", "Due", "ID", "Title")
	for _, l := range logs {
		due := l.CreatedAt
		if l.NextReviewAt != nil {
			due = *l.NextReviewAt
		}
		fmt.Fprintf(w, "%-10s  %-36s  %s\n", due.Format("2006-01-02"), l.ID, l.Title)
	}
}
