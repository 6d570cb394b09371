package daemon

import (
	"context"
	"log/slog"
	"time"
)

// StrutPublisher is the shell's strut state as seen from outside its
// control thread.
type StrutPublisher interface {
	// Degraded reports whether the last strut publication failed.
	Degraded(ctx context.Context) (bool, error)
	// Republish pushes the current struts to the window manager again.
	Republish(ctx context.Context) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically retries strut publication while the window
// manager has not accepted the current struts.
type Reconciler struct {
	interval  time.Duration
	publisher StrutPublisher
	logger    *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, publisher StrutPublisher) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:  interval,
		publisher: publisher,
		logger:    logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile(ctx context.Context) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	degraded, err := r.publisher.Degraded(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("reconciler: failed to read strut state", "error", err)
		}
		return
	}
	if !degraded {
		return
	}

	if err := r.publisher.Republish(ctx); err != nil {
		r.logger.Warn("reconciler: struts still not published", "error", err)
		return
	}
	r.logger.Info("reconciler: struts published")
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) {
	r.reconcile(ctx)
}
