package shell

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/widgets"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

const (
	defaultDesktopColor = 0x303030
	shadowAlpha         = 96
)

// Desktop is the wallpaper surface below every other window.
type Desktop struct {
	shell *Shell

	// Background is the configured wallpaper path. It is saved as is even
	// when the file could not be shown.
	Background string
	Color      uint32

	rawColor string
	id       platform.WindowID
	shown    string
	source   image.Image
	shadows  []platform.Rect
}

func newDesktop(s *Shell) *Desktop {
	return &Desktop{shell: s, Color: defaultDesktopColor}
}

// Attach creates the desktop window over the whole screen.
func (d *Desktop) Attach() error {
	backend := d.shell.backend
	id, err := backend.CreateWindow(platform.KindDesktop, d.shell.screen)
	if err != nil {
		return fmt.Errorf("create desktop window: %w", err)
	}
	d.id = id
	if err := backend.Show(id); err != nil {
		return fmt.Errorf("show desktop window: %w", err)
	}
	return nil
}

// WindowID returns the desktop window.
func (d *Desktop) WindowID() platform.WindowID {
	return d.id
}

// Load reads the background color and image. A background that cannot be
// loaded keeps whatever was shown before.
func (d *Desktop) Load(g *configstore.Group) error {
	var colorErr error
	d.Color, d.rawColor, colorErr = widgets.LoadColor(g, "Color", defaultDesktopColor)

	d.Background = g.String("Background", "")
	if d.Background == "" {
		d.shown = ""
		d.source = nil
		d.paint()
		return colorErr
	}
	if d.Background == d.shown && d.source != nil {
		d.paint()
		return colorErr
	}
	if err := d.show(d.Background); err != nil {
		if d.source == nil {
			d.paint()
		}
		return errors.Join(colorErr, err)
	}
	return colorErr
}

// Save writes the desktop settings. A color that did not parse is written
// back unchanged.
func (d *Desktop) Save(g *configstore.Group) error {
	widgets.SaveColor(g, "Color", d.Color, d.rawColor)
	if d.Background != "" {
		g.Set("Background", d.Background)
	} else {
		g.Delete("Background")
	}
	return nil
}

// SetBackground decodes path and shows it. On failure the user is notified
// and the previous background stays.
func (d *Desktop) SetBackground(path string) error {
	if err := d.show(path); err != nil {
		return err
	}
	d.Background = path
	return nil
}

func (d *Desktop) show(path string) error {
	img, err := decodeImage(path)
	if err != nil {
		d.shell.notify("desktop-background", "Background not changed", err.Error())
		return err
	}
	d.shown = path
	d.source = img
	d.paint()
	return nil
}

// SetShadows sets the areas darkened by panels and repaints.
func (d *Desktop) SetShadows(regions []platform.Rect) {
	d.shadows = regions
	d.paint()
}

// Place resizes the desktop to the screen and repaints.
func (d *Desktop) Place(screen platform.Rect) error {
	if d.id == 0 {
		return nil
	}
	if err := d.shell.backend.MoveResize(d.id, screen); err != nil {
		return err
	}
	d.paint()
	return nil
}

// Close destroys the desktop window.
func (d *Desktop) Close() {
	if d.id != 0 {
		d.shell.backend.DestroyWindow(d.id)
		d.id = 0
	}
}

func (d *Desktop) paint() {
	if d.id == 0 {
		return
	}
	backend := d.shell.backend
	if d.source == nil && len(d.shadows) == 0 {
		if err := backend.SetColor(d.id, d.Color); err != nil {
			d.shell.logger.Debug("desktop color not applied", "error", err)
		}
		return
	}
	if err := backend.SetImage(d.id, d.compose()); err != nil {
		d.shell.logger.Warn("desktop not painted", "error", err)
	}
}

// compose renders the wallpaper at screen size with the panel shadows.
func (d *Desktop) compose() *image.RGBA {
	screen := d.shell.screen
	dst := image.NewRGBA(image.Rect(0, 0, screen.Width, screen.Height))

	if d.source != nil && !d.source.Bounds().Empty() && !dst.Bounds().Empty() {
		scaled := xgraphics.Scale(d.source, screen.Width, screen.Height)
		draw.Draw(dst, dst.Bounds(), scaled, image.Point{}, draw.Src)
	} else {
		bg := color.RGBA{R: uint8(d.Color >> 16), G: uint8(d.Color >> 8), B: uint8(d.Color), A: 0xFF}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	for _, r := range d.shadows {
		local := image.Rect(r.X-screen.X, r.Y-screen.Y, r.X-screen.X+r.Width, r.Y-screen.Y+r.Height)
		fromTop := r.Y <= screen.Y+screen.Height/2
		shade(dst, local, fromTop)
	}
	return dst
}

// shade darkens r with a vertical gradient, darkest at the panel side.
func shade(dst *image.RGBA, r image.Rectangle, fromTop bool) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.DrawMask(dst, r, image.Black, image.Point{}, shadowMask(r, fromTop), r.Min, draw.Over)
}

// shadowMask is an alpha ramp over r from shadowAlpha to zero.
func shadowMask(r image.Rectangle, fromTop bool) *image.Alpha {
	mask := image.NewAlpha(r)
	h := r.Dy()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dist := y - r.Min.Y
		if !fromTop {
			dist = r.Max.Y - 1 - y
		}
		a := uint8(shadowAlpha * (h - dist) / h)
		row := mask.Pix[mask.PixOffset(r.Min.X, y):mask.PixOffset(r.Min.X, y)+r.Dx()]
		for i := range row {
			row[i] = a
		}
	}
	return mask
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}
