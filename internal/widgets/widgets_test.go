package widgets

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/dbus"
	"github.com/1broseidon/deskshell/internal/model"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHost struct {
	backend  *platformtest.Backend
	store    *configstore.Store
	registry *model.Registry
	struts   platform.Struts
	services Services
	dashes   int
}

func newTestHost() *testHost {
	h := &testHost{
		backend: platformtest.New(1920, 1080),
		store:   configstore.New(),
	}
	h.registry = model.NewRegistry(h.store, Factories(h), nil)
	return h
}

func (h *testHost) Backend() platform.Backend { return h.backend }
func (h *testHost) Struts() platform.Struts   { return h.struts }
func (h *testHost) Screen() platform.Rect     { return h.backend.ScreenRect }
func (h *testHost) Services() Services        { return h.services }
func (h *testHost) Logger() *slog.Logger      { return slog.Default() }
func (h *testHost) ToggleDash() error         { h.dashes++; return nil }

func (h *testHost) Resolve(name string, parent model.Model) (model.Model, error) {
	return h.registry.Resolve(name, parent)
}

func (h *testHost) set(group string, kv map[string]any) {
	g := h.store.Group(group)
	for k, v := range kv {
		g.Set(k, v)
	}
}

type fakeLauncher struct{ launched []string }

func (l *fakeLauncher) Launch(command string) error {
	l.launched = append(l.launched, command)
	return nil
}

type fakeMixer struct {
	level int
	muted bool
	err   error
}

func (m *fakeMixer) Volume(context.Context) (int, error) { return m.level, m.err }
func (m *fakeMixer) SetVolume(_ context.Context, p int) error {
	m.level = p
	return m.err
}
func (m *fakeMixer) ToggleMute(context.Context) error { m.muted = !m.muted; return m.err }

type fakeMedia struct {
	players []string
	track   dbus.Track
	actions []string
}

func (m *fakeMedia) Players(context.Context) ([]string, error) { return m.players, nil }
func (m *fakeMedia) NowPlaying(_ context.Context, p string) (dbus.Track, error) {
	t := m.track
	t.Player = p
	return t, nil
}
func (m *fakeMedia) PlayPause(_ context.Context, p string) error {
	m.actions = append(m.actions, "PlayPause "+p)
	return nil
}
func (m *fakeMedia) Next(_ context.Context, p string) error {
	m.actions = append(m.actions, "Next "+p)
	return nil
}
func (m *fakeMedia) Previous(_ context.Context, p string) error {
	m.actions = append(m.actions, "Previous "+p)
	return nil
}

type fakeNetwork struct {
	status dbus.NetworkStatus
	err    error
}

func (n *fakeNetwork) Status(context.Context) (dbus.NetworkStatus, error) { return n.status, n.err }

func TestPanel_LoadDefaults(t *testing.T) {
	h := newTestHost()
	h.set("top1", map[string]any{"Type": "Panel"})

	m, err := h.Resolve("top1", nil)
	require.NoError(t, err)
	p := m.(*Panel)

	assert.Equal(t, platform.EdgeTop, p.Edge)
	assert.True(t, p.Reserve)
	assert.False(t, p.Shadow)
	assert.Equal(t, uint32(defaultPanelColor), p.Color)
	assert.Equal(t, 30, p.Reservation().Thickness())
}

func TestPanel_LoadRejectsBadValues(t *testing.T) {
	h := newTestHost()
	h.set("bad", map[string]any{"Type": "Panel", "Position": "Middle"})
	h.set("ugly", map[string]any{"Type": "Panel", "Color": "blue"})

	_, err := h.Resolve("bad", nil)
	assert.Error(t, err)
	_, err = h.Resolve("ugly", nil)
	assert.Error(t, err)
}

func TestPanel_AttachResolvesButtonsAndClickActivates(t *testing.T) {
	h := newTestHost()
	h.struts = platform.Struts{Top: 30}
	h.set("top1", map[string]any{"Type": "Panel", "Position": "Top", "Height": 30, "Widgets": []string{"dash", "missing", "clock"}})
	h.set("dash", map[string]any{"Type": "DashButton"})
	h.set("clock", map[string]any{"Type": "Date", "DialogWidth": 220, "DialogHeight": 120})

	m, err := h.Resolve("top1", nil)
	require.NoError(t, err)
	p := m.(*Panel)
	require.NoError(t, p.Attach(h.Screen()))

	w := h.backend.Windows[p.WindowID()]
	assert.Equal(t, platform.KindDock, w.Kind)
	assert.True(t, w.Visible)
	assert.Equal(t, platform.Rect{Width: 1920, Height: 30}, w.Bounds)
	require.Len(t, p.Buttons(), 2, "unresolvable widgets are skipped")

	require.True(t, h.backend.Click(p.WindowID(), 10, 10))
	assert.Equal(t, 1, h.dashes)

	require.True(t, h.backend.Click(p.WindowID(), 45, 10))
	clock, _ := h.registry.Lookup("clock")
	date := clock.(*Date)
	require.True(t, date.visible())
	// Cell 1 starts at x=30: 30 + 110 = 140; y = 0 + top strut.
	assert.Equal(t, platform.Rect{X: 140, Y: 30, Width: 220, Height: 120}, date.dlg.Rect())

	// Clicking past the last cell does nothing.
	require.True(t, h.backend.Click(p.WindowID(), 500, 10))
	assert.Equal(t, 1, h.dashes)
}

func TestPanel_TriggerForAndPlace(t *testing.T) {
	h := newTestHost()
	h.set("bottom", map[string]any{"Type": "Panel", "Position": "Bottom", "Height": 40, "Widgets": "dash"})
	h.set("dash", map[string]any{"Type": "DashButton"})

	m, err := h.Resolve("bottom", nil)
	require.NoError(t, err)
	p := m.(*Panel)
	require.NoError(t, p.Attach(h.Screen()))

	trigger, ok := p.TriggerFor("dash")
	require.True(t, ok)
	assert.Equal(t, platform.Rect{X: 0, Y: 1040, Width: 40, Height: 40}, trigger)

	_, ok = p.TriggerFor("nope")
	assert.False(t, ok)

	h.backend.ScreenRect = platform.Rect{Width: 1280, Height: 1024}
	require.NoError(t, p.Place(h.backend.ScreenRect))
	assert.Equal(t, platform.Rect{Y: 984, Width: 1280, Height: 40}, h.backend.Windows[p.WindowID()].Bounds)

	id := p.WindowID()
	p.Detach()
	assert.False(t, p.Attached())
	assert.True(t, h.backend.Windows[id].Destroyed)
}

func TestPanel_SaveRoundTrip(t *testing.T) {
	h := newTestHost()
	h.set("left1", map[string]any{"Type": "Panel", "Position": "Left", "Width": 40, "Reserve": false, "Shadow": true, "Color": "#112233", "Widgets": "a,b"})

	m, err := h.Resolve("left1", nil)
	require.NoError(t, err)

	out := configstore.New()
	require.NoError(t, m.Save(out.Group("left1")))
	g := out.Group("left1")
	assert.Equal(t, "Panel", g.String("Type", ""))
	assert.Equal(t, "Left", g.String("Position", ""))
	assert.Equal(t, 40, g.Int("Width", 0))
	assert.False(t, g.Bool("Reserve", true))
	assert.True(t, g.Bool("Shadow", false))
	assert.Equal(t, "#112233", g.String("Color", ""))
	assert.Equal(t, []string{"a", "b"}, g.List("Widgets"))
}

func TestTasks_ResolvesChildrenWithItselfAsParent(t *testing.T) {
	h := newTestHost()
	launcher := &fakeLauncher{}
	h.services.Launcher = launcher
	h.set("apps", map[string]any{"Type": "Tasks", "Tasks": "term,browser,broken,ghost"})
	h.set("term", map[string]any{"Type": "Task", "Command": "xterm -e top"})
	h.set("browser", map[string]any{"Type": "Task", "Command": "firefox", "Label": "Web"})
	h.set("broken", map[string]any{"Type": "Task"})

	m, err := h.Resolve("apps", nil)
	require.NoError(t, err)
	tasks := m.(*Tasks)

	require.Len(t, tasks.Entries(), 2)
	assert.Same(t, tasks, tasks.Entries()[0].Parent())
	assert.Equal(t, "Web", tasks.Entries()[1].Label())

	require.NoError(t, tasks.Launch(0))
	require.NoError(t, tasks.Entries()[1].Activate(platform.Rect{}))
	assert.Equal(t, []string{"xterm -e top", "firefox"}, launcher.launched)
	assert.Error(t, tasks.Launch(5))

	_, err = h.Resolve("broken", tasks)
	assert.Error(t, err, "task without command fails to load and is not cached")
}

func TestTask_NotResolvableTopLevel(t *testing.T) {
	h := newTestHost()
	h.set("term", map[string]any{"Type": "Task", "Command": "xterm"})

	_, err := h.Resolve("term", nil)
	assert.ErrorIs(t, err, model.ErrOrphanChild)
}

func TestTask_LaunchWithoutLauncher(t *testing.T) {
	h := newTestHost()
	h.set("apps", map[string]any{"Type": "Tasks", "Tasks": "term"})
	h.set("term", map[string]any{"Type": "Task", "Command": "xterm"})

	m, err := h.Resolve("apps", nil)
	require.NoError(t, err)
	assert.Error(t, m.(*Tasks).Launch(0))
}

func TestDate_LabelAndCalendar(t *testing.T) {
	h := newTestHost()
	h.set("clock", map[string]any{"Type": "Date", "Format": "Mon 15:04"})

	m, err := h.Resolve("clock", nil)
	require.NoError(t, err)
	d := m.(*Date)
	d.now = func() time.Time { return time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC) }

	assert.Equal(t, "Sun 09:30", d.Label())

	weeks := d.Calendar()
	// October 2026 starts on a Thursday.
	assert.Equal(t, [7]int{0, 0, 0, 1, 2, 3, 4}, weeks[0])
	assert.Equal(t, [7]int{26, 27, 28, 29, 30, 31, 0}, weeks[len(weeks)-1])
}

func TestMonthGrid_MondayStart(t *testing.T) {
	// February 2021 starts on a Monday and fills exactly four weeks.
	weeks := MonthGrid(time.Date(2021, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, weeks, 4)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 7}, weeks[0])
	assert.Equal(t, [7]int{22, 23, 24, 25, 26, 27, 28}, weeks[3])
}

func TestVolume_StepsThroughMixer(t *testing.T) {
	h := newTestHost()
	mixer := &fakeMixer{level: 40}
	h.services.Mixer = mixer
	h.set("vol", map[string]any{"Type": "Volume", "Step": 10})

	m, err := h.Resolve("vol", nil)
	require.NoError(t, err)
	v := m.(*Volume)
	assert.Equal(t, "Vol --", v.Label())

	require.NoError(t, v.Raise())
	assert.Equal(t, 50, mixer.level)
	require.NoError(t, v.Lower())
	require.NoError(t, v.Lower())
	assert.Equal(t, "Vol 30%", v.Label())

	require.NoError(t, v.ToggleMute())
	assert.True(t, mixer.muted)

	require.NoError(t, v.Activate(platform.Rect{X: 10}))
	assert.True(t, v.visible())
}

func TestVolume_LevelStaysWithinMixerRange(t *testing.T) {
	h := newTestHost()
	mx := &fakeMixer{level: 145}
	h.services.Mixer = mx
	h.set("vol", map[string]any{"Type": "Volume", "Step": 10})

	m, err := h.Resolve("vol", nil)
	require.NoError(t, err)
	v := m.(*Volume)

	require.NoError(t, v.Raise())
	require.NoError(t, v.Raise())
	assert.Equal(t, "Vol 150%", v.Label())
	assert.Equal(t, 150, mx.level)

	mx.level = 5
	require.NoError(t, v.Refresh())
	require.NoError(t, v.Lower())
	assert.Equal(t, "Vol 0%", v.Label())
}

func TestVolume_RejectsNonPositiveStep(t *testing.T) {
	h := newTestHost()
	h.set("vol", map[string]any{"Type": "Volume", "Step": 0})
	_, err := h.Resolve("vol", nil)
	assert.Error(t, err)
}

func TestVolume_NoMixer(t *testing.T) {
	h := newTestHost()
	h.set("vol", map[string]any{"Type": "Volume"})
	m, err := h.Resolve("vol", nil)
	require.NoError(t, err)
	assert.Error(t, m.(*Volume).Raise())
	require.NoError(t, m.(*Volume).Activate(platform.Rect{}), "dialog still opens without a mixer")
}

func TestNetwork_Label(t *testing.T) {
	h := newTestHost()
	monitor := &fakeNetwork{status: dbus.NetworkStatus{State: "online", Connection: "Home"}}
	h.services.Network = monitor
	h.set("net", map[string]any{"Type": "Network"})

	m, err := h.Resolve("net", nil)
	require.NoError(t, err)
	n := m.(*Network)
	assert.Equal(t, "unknown", n.Label())

	require.NoError(t, n.Refresh())
	assert.Equal(t, "online: Home", n.Label())

	monitor.err = errors.New("bus down")
	assert.Error(t, n.Refresh())
	assert.Equal(t, "online: Home", n.Label())
}

func TestMediaPlayer_PicksPreferredPlayer(t *testing.T) {
	h := newTestHost()
	media := &fakeMedia{
		players: []string{"firefox.instance123", "spotify"},
		track:   dbus.Track{Title: "Song", Artist: "Band", Status: "Playing"},
	}
	h.services.Media = media
	h.set("music", map[string]any{"Type": "MediaPlayer", "Player": "spotify"})

	m, err := h.Resolve("music", nil)
	require.NoError(t, err)
	mp := m.(*MediaPlayer)

	assert.Equal(t, "No player", mp.Label())
	require.NoError(t, mp.Next())
	assert.Equal(t, "Band - Song", mp.Label())
	require.NoError(t, mp.PlayPause())
	require.NoError(t, mp.Previous())
	assert.Equal(t, []string{"Next spotify", "PlayPause spotify", "Previous spotify"}, media.actions)
}

func TestMediaPlayer_NoPlayers(t *testing.T) {
	h := newTestHost()
	h.services.Media = &fakeMedia{}
	h.set("music", map[string]any{"Type": "MediaPlayer"})

	m, err := h.Resolve("music", nil)
	require.NoError(t, err)
	assert.Error(t, m.(*MediaPlayer).PlayPause())
}

func TestPickPlayer(t *testing.T) {
	players := []string{"firefox.instance1", "vlc"}
	assert.Equal(t, "firefox.instance1", pickPlayer(players, ""))
	assert.Equal(t, "firefox.instance1", pickPlayer(players, "firefox"))
	assert.Equal(t, "vlc", pickPlayer(players, "vlc"))
	assert.Equal(t, "", pickPlayer(players, "spotify"))
	assert.Equal(t, "", pickPlayer(nil, ""))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1a2B3c")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1A2B3C), c)
	assert.Equal(t, "#1A2B3C", FormatColor(c))

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("zzzzzz")
	assert.Error(t, err)
}

func TestLoadColor_KeepsUnparsableValue(t *testing.T) {
	store := configstore.New()
	g := store.Group("x")

	rgb, raw, err := LoadColor(g, "Color", 0x101010)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x101010), rgb)
	assert.Empty(t, raw)

	g.Set("Color", "teal")
	rgb, raw, err = LoadColor(g, "Color", 0x101010)
	assert.Error(t, err)
	assert.Equal(t, uint32(0x101010), rgb)

	SaveColor(g, "Color", rgb, raw)
	assert.Equal(t, "teal", g.String("Color", ""))

	SaveColor(g, "Color", 0xABCDEF, "")
	assert.Equal(t, "#ABCDEF", g.String("Color", ""))
}

func TestPopover_SavesUnparsableDialogColorBack(t *testing.T) {
	h := newTestHost()
	h.set("clock", map[string]any{"Type": "Date", "DialogColor": "not-a-color"})

	m, err := h.Resolve("clock", nil)
	require.NoError(t, err)
	require.NoError(t, m.Save(h.store.Group("clock")))
	assert.Equal(t, "not-a-color", h.store.Group("clock").String("DialogColor", ""))
}

func TestFactories_CoverEveryKind(t *testing.T) {
	table := Factories(newTestHost())
	for _, tag := range []string{"Panel", "Tasks", "Task", "DashButton", "Volume", "Network", "Date", "MediaPlayer"} {
		kind, ok := model.ParseKind(tag)
		require.True(t, ok, tag)
		assert.Contains(t, table, kind, tag)
	}
}
