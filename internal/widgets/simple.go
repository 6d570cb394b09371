package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/mixer"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
)

// DashButton toggles the dash.
type DashButton struct {
	model.Base
	host  Host
	Title string
}

func NewDashButton(host Host, name string, parent model.Model) *DashButton {
	return &DashButton{Base: model.NewBase(name, model.KindDashButton, parent), host: host}
}

func (d *DashButton) Load(g *configstore.Group) error {
	d.Title = g.String("Label", "Dash")
	return nil
}

func (d *DashButton) Save(g *configstore.Group) error {
	g.Set("Type", model.KindDashButton.String())
	g.Set("Label", d.Title)
	return nil
}

func (d *DashButton) Label() string                { return d.Title }
func (d *DashButton) Activate(platform.Rect) error { return d.host.ToggleDash() }
func (d *DashButton) Close()                       {}

// Date shows the time and opens a month calendar.
type Date struct {
	model.Base
	host Host
	popover

	Format string
	now    func() time.Time
}

func NewDate(host Host, name string, parent model.Model) *Date {
	return &Date{
		Base:    model.NewBase(name, model.KindDate, parent),
		host:    host,
		popover: popover{host: host},
		now:     time.Now,
	}
}

func (d *Date) Load(g *configstore.Group) error {
	d.popover.load(g)
	d.Format = g.String("Format", "15:04")
	return nil
}

func (d *Date) Save(g *configstore.Group) error {
	g.Set("Type", model.KindDate.String())
	g.Set("Format", d.Format)
	d.popover.save(g)
	return nil
}

func (d *Date) Label() string {
	return d.now().Format(d.Format)
}

// Calendar returns the current month as weeks starting on Monday; days
// outside the month are 0.
func (d *Date) Calendar() [][7]int {
	return MonthGrid(d.now())
}

func (d *Date) Activate(trigger platform.Rect) error {
	return d.toggle(trigger)
}

func (d *Date) Close() {
	d.popover.close()
}

// MonthGrid lays out t's month in Monday-first weeks.
func MonthGrid(t time.Time) [][7]int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	days := first.AddDate(0, 1, -1).Day()
	col := (int(first.Weekday()) + 6) % 7

	var weeks [][7]int
	var week [7]int
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Volume shows the output level and changes it in steps.
type Volume struct {
	model.Base
	host Host
	popover

	Step  int
	level int
	known bool
}

func NewVolume(host Host, name string, parent model.Model) *Volume {
	return &Volume{
		Base:    model.NewBase(name, model.KindVolume, parent),
		host:    host,
		popover: popover{host: host},
	}
}

func (v *Volume) Load(g *configstore.Group) error {
	v.popover.load(g)
	v.Step = g.Int("Step", 5)
	if v.Step <= 0 {
		return fmt.Errorf("volume step must be positive, got %d", v.Step)
	}
	return nil
}

func (v *Volume) Save(g *configstore.Group) error {
	g.Set("Type", model.KindVolume.String())
	g.Set("Step", v.Step)
	v.popover.save(g)
	return nil
}

func (v *Volume) Label() string {
	if !v.known {
		return "Vol --"
	}
	return fmt.Sprintf("Vol %d%%", v.level)
}

// Level returns the last known level and whether it was ever read.
func (v *Volume) Level() (int, bool) {
	return v.level, v.known
}

// Refresh re-reads the level from the mixer.
func (v *Volume) Refresh() error {
	mx := v.host.Services().Mixer
	if mx == nil {
		return fmt.Errorf("no mixer available")
	}
	ctx, cancel := serviceContext()
	defer cancel()
	level, err := mx.Volume(ctx)
	if err != nil {
		return err
	}
	v.level, v.known = level, true
	return nil
}

// Raise increases the level by one step.
func (v *Volume) Raise() error { return v.adjust(v.Step) }

// Lower decreases the level by one step.
func (v *Volume) Lower() error { return v.adjust(-v.Step) }

// ToggleMute mutes or unmutes the output.
func (v *Volume) ToggleMute() error {
	mx := v.host.Services().Mixer
	if mx == nil {
		return fmt.Errorf("no mixer available")
	}
	ctx, cancel := serviceContext()
	defer cancel()
	return mx.ToggleMute(ctx)
}

func (v *Volume) adjust(delta int) error {
	if !v.known {
		if err := v.Refresh(); err != nil {
			return err
		}
	}
	ctx, cancel := serviceContext()
	defer cancel()
	target := mixer.ClampVolume(v.level + delta)
	if err := v.host.Services().Mixer.SetVolume(ctx, target); err != nil {
		return err
	}
	v.level = target
	return nil
}

func (v *Volume) Activate(trigger platform.Rect) error {
	if err := v.Refresh(); err != nil {
		v.host.Logger().Debug("volume refresh failed", "error", err)
	}
	return v.toggle(trigger)
}

func (v *Volume) Close() {
	v.popover.close()
}

// Network shows connectivity from NetworkManager.
type Network struct {
	model.Base
	host Host
	popover

	state      string
	connection string
}

func NewNetwork(host Host, name string, parent model.Model) *Network {
	return &Network{
		Base:    model.NewBase(name, model.KindNetwork, parent),
		host:    host,
		popover: popover{host: host},
		state:   "unknown",
	}
}

func (n *Network) Load(g *configstore.Group) error {
	n.popover.load(g)
	return nil
}

func (n *Network) Save(g *configstore.Group) error {
	g.Set("Type", model.KindNetwork.String())
	n.popover.save(g)
	return nil
}

// Refresh re-reads the status from the network service.
func (n *Network) Refresh() error {
	monitor := n.host.Services().Network
	if monitor == nil {
		return fmt.Errorf("no network monitor available")
	}
	ctx, cancel := serviceContext()
	defer cancel()
	status, err := monitor.Status(ctx)
	if err != nil {
		return err
	}
	n.state, n.connection = status.State, status.Connection
	return nil
}

func (n *Network) Label() string {
	if n.connection == "" {
		return n.state
	}
	return n.state + ": " + n.connection
}

func (n *Network) Activate(trigger platform.Rect) error {
	if err := n.Refresh(); err != nil {
		n.host.Logger().Debug("network refresh failed", "error", err)
	}
	return n.toggle(trigger)
}

func (n *Network) Close() {
	n.popover.close()
}

// MediaPlayer shows and controls an MPRIS player.
type MediaPlayer struct {
	model.Base
	host Host
	popover

	Player string // preferred player; empty picks the first one found

	current string
	title   string
	artist  string
	status  string
}

func NewMediaPlayer(host Host, name string, parent model.Model) *MediaPlayer {
	return &MediaPlayer{
		Base:    model.NewBase(name, model.KindMediaPlayer, parent),
		host:    host,
		popover: popover{host: host},
	}
}

func (m *MediaPlayer) Load(g *configstore.Group) error {
	m.popover.load(g)
	m.Player = g.String("Player", "")
	return nil
}

func (m *MediaPlayer) Save(g *configstore.Group) error {
	g.Set("Type", model.KindMediaPlayer.String())
	if m.Player != "" {
		g.Set("Player", m.Player)
	}
	m.popover.save(g)
	return nil
}

// Refresh picks a player and reads its current track.
func (m *MediaPlayer) Refresh() error {
	media := m.host.Services().Media
	if media == nil {
		return fmt.Errorf("no media service available")
	}
	ctx, cancel := serviceContext()
	defer cancel()

	players, err := media.Players(ctx)
	if err != nil {
		return err
	}
	m.current = pickPlayer(players, m.Player)
	if m.current == "" {
		m.title, m.artist, m.status = "", "", ""
		return nil
	}

	track, err := media.NowPlaying(ctx, m.current)
	if err != nil {
		return err
	}
	m.title, m.artist, m.status = track.Title, track.Artist, track.Status
	return nil
}

func pickPlayer(players []string, preferred string) string {
	if len(players) == 0 {
		return ""
	}
	if preferred == "" {
		return players[0]
	}
	for _, p := range players {
		if p == preferred || strings.HasPrefix(p, preferred+".") {
			return p
		}
	}
	return ""
}

func (m *MediaPlayer) Label() string {
	switch {
	case m.current == "":
		return "No player"
	case m.artist != "":
		return m.artist + " - " + m.title
	case m.title != "":
		return m.title
	default:
		return m.current
	}
}

// PlayPause toggles playback on the current player.
func (m *MediaPlayer) PlayPause() error { return m.control("PlayPause") }

// Next skips to the next track.
func (m *MediaPlayer) Next() error { return m.control("Next") }

// Previous returns to the previous track.
func (m *MediaPlayer) Previous() error { return m.control("Previous") }

func (m *MediaPlayer) control(action string) error {
	media := m.host.Services().Media
	if media == nil {
		return fmt.Errorf("no media service available")
	}
	if m.current == "" {
		if err := m.Refresh(); err != nil {
			return err
		}
		if m.current == "" {
			return fmt.Errorf("no media player running")
		}
	}

	ctx, cancel := serviceContext()
	defer cancel()
	switch action {
	case "Next":
		return media.Next(ctx, m.current)
	case "Previous":
		return media.Previous(ctx, m.current)
	default:
		return media.PlayPause(ctx, m.current)
	}
}

func (m *MediaPlayer) Activate(trigger platform.Rect) error {
	if err := m.Refresh(); err != nil {
		m.host.Logger().Debug("media refresh failed", "error", err)
	}
	return m.toggle(trigger)
}

func (m *MediaPlayer) Close() {
	m.popover.close()
}
