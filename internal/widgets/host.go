// Package widgets implements the models a panel is built from.
package widgets

import (
	"context"
	"log/slog"

	"github.com/1broseidon/deskshell/internal/dbus"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
)

// Host is the shell as seen by its widgets. Widgets hold it without owning
// it; the shell outlives every widget.
type Host interface {
	Backend() platform.Backend
	Struts() platform.Struts
	Screen() platform.Rect
	Resolve(name string, parent model.Model) (model.Model, error)
	ToggleDash() error
	Services() Services
	Logger() *slog.Logger
}

// MediaController drives MPRIS players.
type MediaController interface {
	Players(ctx context.Context) ([]string, error)
	NowPlaying(ctx context.Context, player string) (dbus.Track, error)
	PlayPause(ctx context.Context, player string) error
	Next(ctx context.Context, player string) error
	Previous(ctx context.Context, player string) error
}

// NetworkMonitor reports connectivity.
type NetworkMonitor interface {
	Status(ctx context.Context) (dbus.NetworkStatus, error)
}

// VolumeControl reads and sets the output volume in percent.
type VolumeControl interface {
	Volume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, percent int) error
	ToggleMute(ctx context.Context) error
}

// Launcher starts a command line.
type Launcher interface {
	Launch(command string) error
}

// Services are the desktop services widgets read from. Any field may be nil
// when the service is unavailable.
type Services struct {
	Media    MediaController
	Network  NetworkMonitor
	Mixer    VolumeControl
	Launcher Launcher
}
