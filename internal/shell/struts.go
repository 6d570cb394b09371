package shell

import (
	"github.com/1broseidon/deskshell/internal/layout"
	"github.com/1broseidon/deskshell/internal/platform"
)

// RecomputeStruts derives the struts from the live panels, keeps them as the
// authoritative value and publishes them. A publish failure leaves the shell
// degraded but still positions dialogs with the new struts.
func (s *Shell) RecomputeStruts() platform.Struts {
	reservations := make([]layout.Reservation, 0, len(s.panels))
	for _, p := range s.panels {
		reservations = append(reservations, p.Reservation())
	}
	s.struts = layout.ComputeStruts(reservations)
	if err := s.PublishStruts(); err != nil {
		s.logger.Warn("struts not published", "struts", s.struts, "error", err)
	}
	if s.desktop != nil {
		s.desktop.SetShadows(s.shadowRegions())
	}
	return s.struts
}

// PublishStruts pushes the current struts to the window manager and updates
// the degraded flag.
func (s *Shell) PublishStruts() error {
	if s.window == 0 {
		return nil
	}
	if err := s.backend.PublishStruts(s.window, s.struts, s.screen); err != nil {
		s.degraded = true
		return err
	}
	if s.degraded {
		s.logger.Info("struts published after failure", "struts", s.struts)
	}
	s.degraded = false
	return nil
}

func (s *Shell) shadowRegions() []platform.Rect {
	var regions []platform.Rect
	for _, p := range s.panels {
		if !p.Shadow {
			continue
		}
		if r, ok := layout.ShadowRegion(p.Bounds(), p.Edge); ok {
			regions = append(regions, r)
		}
	}
	return regions
}
