package widgets

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/layout"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
)

const (
	defaultThickness  = 30
	defaultPanelColor = 0x202020
)

// Panel is a dock window along one screen edge holding a row of buttons.
type Panel struct {
	model.Base
	host Host

	Edge       platform.Edge
	Size       platform.Size
	Reserve    bool
	Shadow     bool
	Color      uint32
	ButtonSize int
	Widgets    []string

	id      platform.WindowID
	bounds  platform.Rect
	cells   []platform.Rect
	buttons []Button
}

// NewPanel returns an unloaded panel.
func NewPanel(host Host, name string, parent model.Model) *Panel {
	return &Panel{Base: model.NewBase(name, model.KindPanel, parent), host: host}
}

// Load reads the panel's geometry and widget list.
func (p *Panel) Load(g *configstore.Group) error {
	edge, err := platform.ParseEdge(g.String("Position", "Top"))
	if err != nil {
		return err
	}
	color := uint32(defaultPanelColor)
	if s := g.String("Color", ""); s != "" {
		if color, err = ParseColor(s); err != nil {
			return err
		}
	}

	size := platform.Size{
		Width:  g.Int("Width", defaultThickness),
		Height: g.Int("Height", defaultThickness),
	}
	if size.Width < 0 || size.Height < 0 {
		return fmt.Errorf("panel %q has a negative size", p.Name())
	}

	p.Edge = edge
	p.Size = size
	p.Reserve = g.Bool("Reserve", true)
	p.Shadow = g.Bool("Shadow", false)
	p.Color = color
	p.ButtonSize = g.Int("ButtonSize", 0)
	p.Widgets = g.List("Widgets")
	return nil
}

// Save writes the panel back to its group.
func (p *Panel) Save(g *configstore.Group) error {
	g.Set("Type", model.KindPanel.String())
	g.Set("Position", p.Edge.String())
	g.Set("Width", p.Size.Width)
	g.Set("Height", p.Size.Height)
	g.Set("Reserve", p.Reserve)
	g.Set("Shadow", p.Shadow)
	g.Set("Color", FormatColor(p.Color))
	if p.ButtonSize > 0 {
		g.Set("ButtonSize", p.ButtonSize)
	}
	g.Set("Widgets", p.Widgets)
	return nil
}

// Reservation returns what the panel contributes to the struts.
func (p *Panel) Reservation() layout.Reservation {
	return layout.Reservation{Edge: p.Edge, Size: p.Size, Reserve: p.Reserve}
}

// Attached reports whether the panel has a window.
func (p *Panel) Attached() bool {
	return p.id != 0
}

// WindowID returns the panel's dock window, or 0 when detached.
func (p *Panel) WindowID() platform.WindowID {
	return p.id
}

// Bounds returns the panel's screen rectangle.
func (p *Panel) Bounds() platform.Rect {
	return p.bounds
}

// Buttons returns the resolved widgets in cell order.
func (p *Panel) Buttons() []Button {
	return p.buttons
}

// Attach creates the dock window, resolves the widgets and shows the panel.
func (p *Panel) Attach(screen platform.Rect) error {
	backend := p.host.Backend()
	if p.id == 0 {
		p.bounds = layout.PanelBounds(screen, p.Edge, p.Size)
		id, err := backend.CreateWindow(platform.KindDock, p.bounds)
		if err != nil {
			return fmt.Errorf("panel %q: %w", p.Name(), err)
		}
		p.id = id
		backend.OnClick(id, func(x, y int) {
			if err := p.ActivateAt(x, y); err != nil {
				p.host.Logger().Warn("panel click failed", "panel", p.Name(), "error", err)
			}
		})
	}

	if err := backend.SetColor(p.id, p.Color); err != nil {
		p.host.Logger().Debug("panel color not applied", "panel", p.Name(), "error", err)
	}
	p.resolveButtons()
	if err := p.Place(screen); err != nil {
		return err
	}
	return backend.Show(p.id)
}

// Place moves the panel onto its edge of screen.
func (p *Panel) Place(screen platform.Rect) error {
	if p.id == 0 {
		return nil
	}
	p.bounds = layout.PanelBounds(screen, p.Edge, p.Size)
	p.cells = layout.Cells(p.bounds, p.Edge, p.buttonSize(), len(p.buttons))
	return p.host.Backend().MoveResize(p.id, p.bounds)
}

// Detach destroys the panel window. The panel model stays cached.
func (p *Panel) Detach() {
	if p.id == 0 {
		return
	}
	for _, b := range p.buttons {
		b.Close()
	}
	p.host.Backend().DestroyWindow(p.id)
	p.id = 0
	p.cells = nil
	p.buttons = nil
}

// ActivateAt activates the button under a panel-relative point.
func (p *Panel) ActivateAt(x, y int) error {
	i := layout.CellAt(p.cells, x, y)
	if i < 0 || i >= len(p.buttons) {
		return nil
	}
	return p.buttons[i].Activate(p.trigger(i))
}

// TriggerFor returns the screen-relative cell of the named button.
func (p *Panel) TriggerFor(name string) (platform.Rect, bool) {
	for i, b := range p.buttons {
		if b.Name() == name && i < len(p.cells) {
			return p.trigger(i), true
		}
	}
	return platform.Rect{}, false
}

func (p *Panel) trigger(i int) platform.Rect {
	screen := p.host.Screen()
	cell := p.cells[i]
	cell.X += p.bounds.X - screen.X
	cell.Y += p.bounds.Y - screen.Y
	return cell
}

func (p *Panel) buttonSize() int {
	if p.ButtonSize > 0 {
		return p.ButtonSize
	}
	if p.Edge.Vertical() {
		return p.Size.Width
	}
	return p.Size.Height
}

func (p *Panel) resolveButtons() {
	buttons := make([]Button, 0, len(p.Widgets))
	for _, name := range p.Widgets {
		m, err := p.host.Resolve(name, nil)
		if err != nil {
			p.host.Logger().Warn("panel widget unavailable", "panel", p.Name(), "widget", name, "error", err)
			continue
		}
		b, ok := m.(Button)
		if !ok {
			p.host.Logger().Warn("panel widget is not a button", "panel", p.Name(), "widget", name, "kind", m.Kind().String())
			continue
		}
		buttons = append(buttons, b)
	}
	p.buttons = buttons
}
