package shell

import (
	"context"
	"time"
)

const notifyTimeout = 2 * time.Second

// Run drives the window-system event loop and posted calls until ctx is
// done. It must be called from the goroutine that owns the shell.
func (s *Shell) Run(ctx context.Context) error {
	return s.backend.Run(ctx, s.calls)
}

// Post queues fn to run on the control thread.
func (s *Shell) Post(fn func()) {
	s.calls <- fn
}

// Call runs fn on the control thread and waits for its result. It must not
// be called from the control thread itself.
func (s *Shell) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case s.calls <- func() { done <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
