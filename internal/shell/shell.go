// Package shell is the composition root: it owns the model registry, the
// desktop, the panels and the dash, and orders their loading and saving.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/dbus"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/widgets"
)

// Store groups owned by the shell itself rather than by a model.
const (
	ShellGroup   = "Shell"
	DesktopGroup = "Desktop"
	DashGroup    = "Dash"
)

// ErrNoDash is returned by ToggleDash when no dash is configured.
var ErrNoDash = errors.New("no dash configured")

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, key, summary, body string, urgency dbus.Urgency) error
}

// Options configures a Shell.
type Options struct {
	// EagerModels resolves every store group at startup instead of only the
	// ones reachable from the panel list.
	EagerModels bool
	Services    widgets.Services
	Notifier    Notifier
	Logger      *slog.Logger
}

// Shell owns every on-screen surface. All methods run on the control thread;
// other goroutines go through Post or Call.
type Shell struct {
	backend  platform.Backend
	store    *configstore.Store
	registry *model.Registry
	services widgets.Services
	notifier Notifier
	logger   *slog.Logger
	eager    bool

	calls chan func()

	window   platform.WindowID
	screen   platform.Rect
	struts   platform.Struts
	degraded bool

	desktop    *Desktop
	dash       *Dash
	panels     []*widgets.Panel
	stylesheet string
	style      []byte
	loaded     bool
}

var _ widgets.Host = (*Shell)(nil)

// New creates a shell over backend and store. Nothing is shown until LoadAll.
func New(backend platform.Backend, store *configstore.Store, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Shell{
		backend:  backend,
		store:    store,
		services: opts.Services,
		notifier: opts.Notifier,
		logger:   logger,
		eager:    opts.EagerModels,
		calls:    make(chan func(), 16),
	}
	s.registry = model.NewRegistry(store, widgets.Factories(s), logger)
	return s
}

// Backend returns the window-system backend.
func (s *Shell) Backend() platform.Backend { return s.backend }

// Struts returns the authoritative strut set, published or not.
func (s *Shell) Struts() platform.Struts { return s.struts }

// Screen returns the current screen geometry.
func (s *Shell) Screen() platform.Rect { return s.screen }

// Services returns the desktop services available to widgets.
func (s *Shell) Services() widgets.Services { return s.services }

// Logger returns the shell logger.
func (s *Shell) Logger() *slog.Logger { return s.logger }

// Registry returns the model registry.
func (s *Shell) Registry() *model.Registry { return s.registry }

// Resolve resolves a model through the registry.
func (s *Shell) Resolve(name string, parent model.Model) (model.Model, error) {
	return s.registry.Resolve(name, parent)
}

// Panels returns the live panels in order.
func (s *Shell) Panels() []*widgets.Panel {
	return s.panels
}

// Desktop returns the desktop, or nil before LoadAll.
func (s *Shell) Desktop() *Desktop {
	return s.desktop
}

// Degraded reports whether the last strut publication failed.
func (s *Shell) Degraded() bool {
	return s.degraded
}

// ToggleDash shows or hides the dash.
func (s *Shell) ToggleDash() error {
	if s.dash == nil {
		return ErrNoDash
	}
	return s.dash.Toggle()
}

// Activate activates a widget by name, anchored at its panel cell when it
// sits on a panel.
func (s *Shell) Activate(name string) error {
	m, err := s.registry.Resolve(name, nil)
	if err != nil {
		return err
	}
	button, ok := m.(widgets.Button)
	if !ok {
		return fmt.Errorf("%q is a %s and cannot be activated", name, m.Kind())
	}

	var trigger platform.Rect
	for _, p := range s.panels {
		if r, ok := p.TriggerFor(name); ok {
			trigger = r
			break
		}
	}
	return button.Activate(trigger)
}

func (s *Shell) notify(key, summary, body string) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, key, summary, body, dbus.UrgencyNormal); err != nil {
		s.logger.Debug("notification failed", "error", err)
	}
}
