package dialog

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnchor struct {
	struts platform.Struts
	screen platform.Rect
}

func (a *fixedAnchor) Struts() platform.Struts { return a.struts }
func (a *fixedAnchor) Screen() platform.Rect   { return a.screen }

func newDialog(t *testing.T) (*Dialog, *platformtest.Backend, *fixedAnchor) {
	t.Helper()
	backend := platformtest.New(1920, 1080)
	anchor := &fixedAnchor{struts: platform.Struts{Top: 30}, screen: backend.ScreenRect}
	d, err := New(backend, anchor, platform.Size{Width: 220, Height: 120}, 0x202020, nil)
	require.NoError(t, err)
	return d, backend, anchor
}

func TestShow_PositionsNextToTrigger(t *testing.T) {
	d, backend, _ := newDialog(t)

	require.NoError(t, d.Show(platform.Rect{X: 500, Y: 10, Width: 30, Height: 30}))

	w := backend.Windows[d.ID()]
	assert.Equal(t, platform.KindDialog, w.Kind)
	assert.True(t, w.Visible)
	assert.Equal(t, platform.Rect{X: 610, Y: 40, Width: 220, Height: 120}, w.Bounds)
	require.NotNil(t, w.Slide)
	assert.Equal(t, platform.EdgeTop, w.Slide.Edge)
	assert.Equal(t, []platform.WindowID{d.ID()}, backend.Activated)
	assert.True(t, d.Visible(), "activating itself must not dismiss the dialog")
}

func TestShow_RecomputesEveryTime(t *testing.T) {
	d, backend, anchor := newDialog(t)

	require.NoError(t, d.Show(platform.Rect{X: 500, Y: 10}))
	require.NoError(t, d.Hide())

	anchor.struts = platform.Struts{Top: 60, Left: 40}
	require.NoError(t, d.Show(platform.Rect{X: 500, Y: 10}))
	assert.Equal(t, platform.Rect{X: 650, Y: 70, Width: 220, Height: 120}, backend.Windows[d.ID()].Bounds)
}

func TestShow_SlideHintIsBestEffort(t *testing.T) {
	d, backend, _ := newDialog(t)
	backend.SlideErr = errors.New("no compositor")

	require.NoError(t, d.Show(platform.Rect{X: 10, Y: 0}))
	assert.True(t, d.Visible())
}

func TestDismissOnForeignActivation(t *testing.T) {
	d, backend, _ := newDialog(t)
	require.NoError(t, d.Show(platform.Rect{X: 10}))

	backend.SetActive(d.ID())
	assert.True(t, d.Visible())

	backend.SetActive(platform.WindowID(9999))
	assert.False(t, d.Visible())
	assert.False(t, backend.Windows[d.ID()].Visible)
}

func TestToggle(t *testing.T) {
	d, _, _ := newDialog(t)

	require.NoError(t, d.Toggle(platform.Rect{X: 10}))
	assert.True(t, d.Visible())
	require.NoError(t, d.Toggle(platform.Rect{X: 10}))
	assert.False(t, d.Visible())
}

func TestClose(t *testing.T) {
	d, backend, _ := newDialog(t)
	require.Equal(t, 1, backend.ActiveHandlers())
	d.Close()
	d.Close()

	assert.True(t, backend.Windows[d.ID()].Destroyed)
	assert.Equal(t, 0, backend.ActiveHandlers(), "closed dialogs stop watching activation")
	assert.Error(t, d.Show(platform.Rect{}))
	backend.SetActive(platform.WindowID(1))
}

func TestClose_RecreatedDialogsDoNotAccumulateHandlers(t *testing.T) {
	backend := platformtest.New(1920, 1080)
	anchor := &fixedAnchor{screen: backend.ScreenRect}
	for i := 0; i < 10; i++ {
		d, err := New(backend, anchor, platform.Size{Width: 100, Height: 100}, 0, nil)
		require.NoError(t, err)
		require.NoError(t, d.Show(platform.Rect{}))
		d.Close()
	}
	assert.Equal(t, 0, backend.ActiveHandlers())
}
