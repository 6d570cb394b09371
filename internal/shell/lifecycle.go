package shell

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/widgets"
)

// LoadAll builds the shell from the store. Later steps depend on earlier
// ones: struts need the final panel list, and the dash is loaded last.
func (s *Shell) LoadAll() error {
	if s.loaded {
		return errors.New("shell already loaded")
	}

	screen, err := s.backend.Screen()
	if err != nil {
		return fmt.Errorf("screen geometry: %w", err)
	}
	s.screen = screen

	// The shell's own window only carries the struts.
	win, err := s.backend.CreateWindow(platform.KindShell, platform.Rect{X: -1, Y: -1, Width: 1, Height: 1})
	if err != nil {
		return fmt.Errorf("create shell window: %w", err)
	}
	s.window = win
	if err := s.backend.Show(win); err != nil {
		s.logger.Warn("shell window not shown", "error", err)
	}

	s.desktop = newDesktop(s)
	if err := s.desktop.Attach(); err != nil {
		return err
	}
	if err := s.desktop.Load(s.store.Group(DesktopGroup)); err != nil {
		s.logger.Warn("desktop background not loaded", "error", err)
	}

	group := s.store.Group(ShellGroup)
	names := group.List("Panels")
	s.stylesheet = group.String("Stylesheet", "")

	if s.eager {
		s.registry.Enumerate(s.modelGroups())
	}

	for _, name := range names {
		s.addPanel(name)
	}

	s.RecomputeStruts()
	s.loadStylesheet()

	s.dash = newDash(s)
	if err := s.dash.Load(s.store.Group(DashGroup)); err != nil {
		s.logger.Warn("dash not loaded", "error", err)
	}

	s.backend.OnScreenChanged(s.ScreenChanged)
	s.loaded = true
	s.logger.Info("shell loaded",
		"panels", len(s.panels),
		"models", s.registry.Len(),
		"struts", s.struts,
	)
	return nil
}

// SaveAll persists every cached model, then the desktop and dash, then the
// shell's panel list, and finally syncs the store. Panels whose own save
// failed are left out of the list.
func (s *Shell) SaveAll() error {
	var errs []error
	failed := make(map[string]bool)

	for _, m := range s.registry.Models() {
		if err := m.Save(s.store.Group(m.Name())); err != nil {
			failed[m.Name()] = true
			errs = append(errs, fmt.Errorf("save %q: %w", m.Name(), err))
		}
	}

	if s.desktop != nil {
		if err := s.desktop.Save(s.store.Group(DesktopGroup)); err != nil {
			errs = append(errs, fmt.Errorf("save desktop: %w", err))
		}
	}
	if s.dash != nil {
		if err := s.dash.Save(s.store.Group(DashGroup)); err != nil {
			errs = append(errs, fmt.Errorf("save dash: %w", err))
		}
	}

	names := make([]string, 0, len(s.panels))
	for _, p := range s.panels {
		if !failed[p.Name()] {
			names = append(names, p.Name())
		}
	}
	group := s.store.Group(ShellGroup)
	group.Set("Panels", names)
	if s.stylesheet != "" {
		group.Set("Stylesheet", s.stylesheet)
	}

	if err := s.store.Sync(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("save incomplete", "error", err)
		return err
	}
	s.logger.Info("shell saved", "models", s.registry.Len(), "panels", len(names))
	return nil
}

// Reload re-reads the store file and applies it in place. Cached models are
// reloaded, never recreated; panels are added or removed to match the new
// list.
func (s *Shell) Reload() error {
	if !s.loaded {
		return errors.New("shell not loaded")
	}
	changed, err := s.store.Reload()
	if err != nil {
		return err
	}
	if !changed {
		s.logger.Debug("store unchanged")
		return nil
	}

	if err := s.desktop.Load(s.store.Group(DesktopGroup)); err != nil {
		s.logger.Warn("desktop background not reloaded", "error", err)
	}

	for _, m := range s.registry.Models() {
		if !s.store.HasGroup(m.Name()) {
			continue
		}
		if err := m.Load(s.store.Group(m.Name())); err != nil {
			s.logger.Warn("model reload failed", "name", m.Name(), "error", err)
		}
	}

	group := s.store.Group(ShellGroup)
	names := group.List("Panels")
	s.stylesheet = group.String("Stylesheet", "")

	kept := s.panels[:0]
	for _, p := range s.panels {
		if slices.Contains(names, p.Name()) {
			kept = append(kept, p)
			continue
		}
		p.Detach()
		s.logger.Info("panel removed", "panel", p.Name())
	}
	s.panels = kept

	for _, p := range s.panels {
		if err := p.Attach(s.screen); err != nil {
			s.logger.Warn("panel refresh failed", "panel", p.Name(), "error", err)
		}
	}
	for _, name := range names {
		if s.panel(name) == nil {
			s.addPanel(name)
		}
	}
	s.panels = orderPanels(s.panels, names)

	s.RecomputeStruts()
	s.loadStylesheet()

	if err := s.dash.Load(s.store.Group(DashGroup)); err != nil {
		s.logger.Warn("dash not reloaded", "error", err)
	}

	s.logger.Info("shell reloaded", "panels", len(s.panels), "models", s.registry.Len())
	return nil
}

// ScreenChanged re-places every surface for new screen geometry.
func (s *Shell) ScreenChanged(screen platform.Rect) {
	s.logger.Info("screen changed", "screen", screen)
	s.screen = screen
	if s.desktop != nil {
		if err := s.desktop.Place(screen); err != nil {
			s.logger.Warn("desktop placement failed", "error", err)
		}
	}
	for _, p := range s.panels {
		if err := p.Place(screen); err != nil {
			s.logger.Warn("panel placement failed", "panel", p.Name(), "error", err)
		}
	}
	s.RecomputeStruts()
}

// Close tears the shell down.
func (s *Shell) Close() {
	for _, m := range s.registry.Models() {
		if b, ok := m.(widgets.Button); ok {
			b.Close()
		}
	}
	for _, p := range s.panels {
		p.Detach()
	}
	s.panels = nil
	if s.dash != nil {
		s.dash.Close()
	}
	if s.desktop != nil {
		s.desktop.Close()
	}
	if s.window != 0 {
		s.backend.DestroyWindow(s.window)
		s.window = 0
	}
	s.loaded = false
}

func (s *Shell) addPanel(name string) {
	m, err := s.registry.Resolve(name, nil)
	if err != nil {
		s.logger.Warn("panel unavailable", "panel", name, "error", err)
		return
	}
	p, ok := m.(*widgets.Panel)
	if !ok {
		s.logger.Warn("shell panel entry is not a panel", "panel", name, "kind", m.Kind().String())
		return
	}
	if s.panel(name) != nil {
		return
	}
	if err := p.Attach(s.screen); err != nil {
		s.logger.Warn("panel not shown", "panel", name, "error", err)
		return
	}
	s.panels = append(s.panels, p)
}

func (s *Shell) panel(name string) *widgets.Panel {
	for _, p := range s.panels {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// modelGroups returns store groups that may describe models.
func (s *Shell) modelGroups() []string {
	var names []string
	for _, name := range s.store.Groups() {
		switch name {
		case ShellGroup, DesktopGroup, DashGroup:
			continue
		}
		names = append(names, name)
	}
	return names
}

func (s *Shell) loadStylesheet() {
	s.style = nil
	if s.stylesheet == "" {
		return
	}
	data, err := os.ReadFile(s.stylesheet)
	if err != nil {
		s.logger.Warn("stylesheet not loaded", "path", s.stylesheet, "error", err)
		return
	}
	s.style = data
}

func orderPanels(panels []*widgets.Panel, names []string) []*widgets.Panel {
	ordered := make([]*widgets.Panel, 0, len(panels))
	for _, name := range names {
		for _, p := range panels {
			if p.Name() == name {
				ordered = append(ordered, p)
				break
			}
		}
	}
	return ordered
}
