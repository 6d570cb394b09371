package main

import (
	"context"

	"github.com/1broseidon/deskshell/internal/daemon"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

// controller lets background goroutines drive the shell. Every method hops
// onto the control thread and gives up once the shell stops running.
type controller struct {
	shell *shell.Shell
	life  context.Context
}

var (
	_ ipc.Controller        = (*controller)(nil)
	_ daemon.StrutPublisher = (*controller)(nil)
	_ daemon.Reloader       = (*controller)(nil)
)

func newController(life context.Context, sh *shell.Shell) *controller {
	return &controller{shell: sh, life: life}
}

func (c *controller) call(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.life, cancel)
	defer stop()
	return c.shell.Call(ctx, fn)
}

func (c *controller) Status(ctx context.Context) (shell.Status, error) {
	var st shell.Status
	err := c.call(ctx, func() error {
		st = c.shell.Snapshot()
		return nil
	})
	return st, err
}

func (c *controller) Reload(ctx context.Context) error {
	return c.call(ctx, c.shell.Reload)
}

func (c *controller) Save(ctx context.Context) error {
	return c.call(ctx, c.shell.SaveAll)
}

func (c *controller) Activate(ctx context.Context, name string) error {
	return c.call(ctx, func() error {
		return c.shell.Activate(name)
	})
}

func (c *controller) Degraded(ctx context.Context) (bool, error) {
	var degraded bool
	err := c.call(ctx, func() error {
		degraded = c.shell.Degraded()
		return nil
	})
	return degraded, err
}

func (c *controller) Republish(ctx context.Context) error {
	return c.call(ctx, c.shell.PublishStruts)
}
