package shell

import "github.com/1broseidon/deskshell/internal/platform"

// Status is a point-in-time view of the shell for the control socket.
type Status struct {
	Screen      platform.Rect   `json:"screen"`
	Struts      platform.Struts `json:"struts"`
	Degraded    bool            `json:"degraded"`
	Models      []ModelStatus   `json:"models"`
	Panels      []PanelStatus   `json:"panels"`
	Background  string          `json:"background,omitempty"`
	Stylesheet  string          `json:"stylesheet,omitempty"`
	StyleLoaded bool            `json:"style_loaded"`
	DashVisible bool            `json:"dash_visible"`
}

// ModelStatus describes one cached model.
type ModelStatus struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Parent string `json:"parent,omitempty"`
}

// PanelStatus describes one live panel.
type PanelStatus struct {
	Name    string         `json:"name"`
	Edge    string         `json:"edge"`
	Bounds  platform.Rect  `json:"bounds"`
	Reserve bool           `json:"reserve"`
	Widgets []WidgetStatus `json:"widgets"`
}

// WidgetStatus describes a panel button.
type WidgetStatus struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Snapshot captures the current state.
func (s *Shell) Snapshot() Status {
	st := Status{
		Screen:      s.screen,
		Struts:      s.struts,
		Degraded:    s.degraded,
		Stylesheet:  s.stylesheet,
		StyleLoaded: s.style != nil,
		DashVisible: s.dash != nil && s.dash.Visible(),
	}
	if s.desktop != nil {
		st.Background = s.desktop.Background
	}

	for _, m := range s.registry.Models() {
		ms := ModelStatus{Name: m.Name(), Kind: m.Kind().String()}
		if parent := m.Parent(); parent != nil {
			ms.Parent = parent.Name()
		}
		st.Models = append(st.Models, ms)
	}

	for _, p := range s.panels {
		ps := PanelStatus{
			Name:    p.Name(),
			Edge:    p.Edge.String(),
			Bounds:  p.Bounds(),
			Reserve: p.Reserve,
		}
		for _, b := range p.Buttons() {
			ps.Widgets = append(ps.Widgets, WidgetStatus{
				Name:  b.Name(),
				Kind:  b.Kind().String(),
				Label: b.Label(),
			})
		}
		st.Panels = append(st.Panels, ps)
	}
	return st
}
