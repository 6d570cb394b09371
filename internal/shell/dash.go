package shell

import (
	"errors"
	"fmt"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/dialog"
	"github.com/1broseidon/deskshell/internal/layout"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/widgets"
)

const (
	defaultDashWidth  = 600
	defaultDashHeight = 400
	defaultDashColor  = 0x1E1E1E
)

// Dash is the quick-launch overlay centered in the work area.
type Dash struct {
	shell *Shell

	Size      platform.Size
	Color     uint32
	Launchers string // name of a Tasks model

	rawColor string
	dlg   *dialog.Dialog
	tasks *widgets.Tasks
}

func newDash(s *Shell) *Dash {
	return &Dash{shell: s}
}

// Load reads the dash settings and resolves its launcher menu. A color that
// does not parse falls back to the default and is kept for Save.
func (d *Dash) Load(g *configstore.Group) error {
	d.Size = platform.Size{
		Width:  g.Int("Width", defaultDashWidth),
		Height: g.Int("Height", defaultDashHeight),
	}
	var colorErr error
	d.Color, d.rawColor, colorErr = widgets.LoadColor(g, "Color", defaultDashColor)
	if d.dlg != nil {
		d.dlg.SetSize(d.Size)
	}

	d.Launchers = g.String("Launchers", "")
	d.tasks = nil
	if d.Launchers == "" {
		return colorErr
	}
	m, err := d.shell.registry.Resolve(d.Launchers, nil)
	if err != nil {
		return errors.Join(colorErr, fmt.Errorf("dash launchers: %w", err))
	}
	tasks, ok := m.(*widgets.Tasks)
	if !ok {
		return errors.Join(colorErr, fmt.Errorf("dash launchers %q is a %s, not Tasks", d.Launchers, m.Kind()))
	}
	d.tasks = tasks
	return colorErr
}

// Save writes the dash settings.
func (d *Dash) Save(g *configstore.Group) error {
	g.Set("Width", d.Size.Width)
	g.Set("Height", d.Size.Height)
	widgets.SaveColor(g, "Color", d.Color, d.rawColor)
	if d.Launchers != "" {
		g.Set("Launchers", d.Launchers)
	}
	return nil
}

// Visible reports whether the dash is shown.
func (d *Dash) Visible() bool {
	return d.dlg != nil && d.dlg.Visible()
}

// Tasks returns the launcher menu, or nil.
func (d *Dash) Tasks() *widgets.Tasks {
	return d.tasks
}

// Toggle shows the dash centered in the work area, or hides it.
func (d *Dash) Toggle() error {
	if d.dlg == nil {
		dlg, err := dialog.New(d.shell.backend, d.shell, d.Size, d.Color, d.shell.logger)
		if err != nil {
			return err
		}
		d.dlg = dlg
	}
	if d.dlg.Visible() {
		return d.dlg.Hide()
	}
	area := layout.WorkArea(d.shell.screen, d.shell.struts)
	return d.dlg.ShowAt(layout.CenterIn(area, d.Size))
}

// Launch starts the i-th launcher and hides the dash.
func (d *Dash) Launch(i int) error {
	if d.tasks == nil {
		return fmt.Errorf("dash has no launchers")
	}
	if err := d.tasks.Launch(i); err != nil {
		return err
	}
	if d.dlg != nil {
		return d.dlg.Hide()
	}
	return nil
}

// Close destroys the dash window.
func (d *Dash) Close() {
	if d.dlg != nil {
		d.dlg.Close()
		d.dlg = nil
	}
}
