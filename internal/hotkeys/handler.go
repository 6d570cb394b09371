package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ErrNoKeyboard is returned when the backend cannot grab global keys.
var ErrNoKeyboard = errors.New("backend does not support global hotkeys")

// Actions are the shell operations a hotkey can trigger. Key callbacks run
// on the event loop, so implementations may touch shell state directly.
type Actions interface {
	ToggleDash() error
	Activate(name string) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
		logger:  logger,
	}
}

// RegisterDash binds keySequence to toggling the dash.
func (h *Handler) RegisterDash(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if err := h.actions.ToggleDash(); err != nil {
			h.logger.Warn("dash hotkey failed", "key", keySequence, "error", err)
		}
	})
}

// RegisterWidgets binds each key sequence to activating the named widget.
// Bindings are registered in key order; the first failure stops registration.
func (h *Handler) RegisterWidgets(bindings map[string]string) error {
	for _, key := range sortedKeys(bindings) {
		name := bindings[key]
		if err := h.RegisterFunc(key, func() {
			h.logger.Debug("widget hotkey", "key", key, "widget", name)
			if err := h.actions.Activate(name); err != nil {
				h.logger.Warn("widget hotkey failed", "key", key, "widget", name, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to register hotkey %q for %s: %w", key, name, err)
		}
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return ErrNoKeyboard
	}
	if keySequence == "" {
		return fmt.Errorf("empty key sequence")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func sortedKeys(bindings map[string]string) []string {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
