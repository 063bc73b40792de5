// Package cli implements the interactive and printing parts of the devnote commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

var errEnd = errors.New("end")

//go:generate mockgen -source=session.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

// Session runs one round of an interactive loop. Returning errEnd finishes the loop without an error.
type Session interface {
	Session(ctx context.Context) error
}

// Run repeats session until it ends, fails or the process is interrupted.
func Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}
