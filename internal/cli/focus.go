package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/devnote/internal/timer"
)

// RunFocus counts down duration, redrawing the remaining time in place, until it completes or ctx ends.
// It reports whether the countdown completed.
func RunFocus(ctx context.Context, w io.Writer, duration time.Duration, opts ...timer.Option) bool {
	var mu sync.Mutex
	done := make(chan struct{})
	opts = append(opts,
		timer.OnTick(func(remaining time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(w, "\r%s", timer.Format(remaining))
		}),
		timer.OnComplete(func() { close(done) }),
	)
	focus := timer.New(duration, opts...)

	mu.Lock()
	fmt.Fprintf(w, "Focus for %s\n%s", timer.Format(focus.Remaining()), timer.Format(focus.Remaining()))
	mu.Unlock()
	focus.Start()

	select {
	case <-done:
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w)
		color.New(color.FgGreen).Fprintln(w, "Focus session complete")
		return true
	case <-ctx.Done():
		focus.Stop()
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "\nStopped with %s left\n", timer.Format(focus.Remaining()))
		return false
	}
}
