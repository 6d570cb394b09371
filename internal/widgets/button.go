package widgets

import (
	"context"
	"time"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/dialog"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
)

const (
	defaultDialogWidth  = 220
	defaultDialogHeight = 120
	defaultDialogColor  = 0x2B2B2B

	serviceTimeout = 2 * time.Second
)

// Button is a widget occupying one panel cell.
type Button interface {
	model.Model
	// Label is the widget's current text.
	Label() string
	// Activate reacts to a click. trigger is the clicked control relative to
	// the screen origin.
	Activate(trigger platform.Rect) error
	// Close releases the widget's windows.
	Close()
}

// popover is the dialog a button opens. The window is created on first use.
type popover struct {
	host  Host
	size  platform.Size
	color uint32
	raw   string
	dlg   *dialog.Dialog
}

func (p *popover) load(g *configstore.Group) {
	p.size = platform.Size{
		Width:  g.Int("DialogWidth", defaultDialogWidth),
		Height: g.Int("DialogHeight", defaultDialogHeight),
	}
	var err error
	p.color, p.raw, err = LoadColor(g, "DialogColor", defaultDialogColor)
	if err != nil {
		p.host.Logger().Warn("dialog color ignored", "error", err)
	}
	if p.dlg != nil {
		p.dlg.SetSize(p.size)
	}
}

func (p *popover) save(g *configstore.Group) {
	g.Set("DialogWidth", p.size.Width)
	g.Set("DialogHeight", p.size.Height)
	SaveColor(g, "DialogColor", p.color, p.raw)
}

func (p *popover) toggle(trigger platform.Rect) error {
	if p.dlg == nil {
		d, err := dialog.New(p.host.Backend(), p.host, p.size, p.color, p.host.Logger())
		if err != nil {
			return err
		}
		p.dlg = d
	}
	return p.dlg.Toggle(trigger)
}

func (p *popover) visible() bool {
	return p.dlg != nil && p.dlg.Visible()
}

func (p *popover) close() {
	if p.dlg != nil {
		p.dlg.Close()
		p.dlg = nil
	}
}

func serviceContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), serviceTimeout)
}
