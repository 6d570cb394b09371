package layout

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestPanelBounds(t *testing.T) {
	screen := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	size := platform.Size{Width: 40, Height: 30}

	cases := []struct {
		edge platform.Edge
		want platform.Rect
	}{
		{platform.EdgeTop, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 30}},
		{platform.EdgeBottom, platform.Rect{X: 0, Y: 1050, Width: 1920, Height: 30}},
		{platform.EdgeLeft, platform.Rect{X: 0, Y: 0, Width: 40, Height: 1080}},
		{platform.EdgeRight, platform.Rect{X: 1880, Y: 0, Width: 40, Height: 1080}},
	}
	for _, tc := range cases {
		t.Run(tc.edge.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, PanelBounds(screen, tc.edge, size))
		})
	}
}

func TestCellsAndCellAt(t *testing.T) {
	panel := platform.Rect{Width: 1920, Height: 30}
	cells := Cells(panel, platform.EdgeTop, 30, 3)
	assert.Equal(t, []platform.Rect{
		{X: 0, Y: 0, Width: 30, Height: 30},
		{X: 30, Y: 0, Width: 30, Height: 30},
		{X: 60, Y: 0, Width: 30, Height: 30},
	}, cells)

	assert.Equal(t, 1, CellAt(cells, 45, 12))
	assert.Equal(t, -1, CellAt(cells, 95, 12))

	vertical := Cells(platform.Rect{Width: 40, Height: 1080}, platform.EdgeLeft, 40, 2)
	assert.Equal(t, platform.Rect{X: 0, Y: 40, Width: 40, Height: 40}, vertical[1])

	assert.Nil(t, Cells(panel, platform.EdgeTop, 30, 0))
}

func TestShadowRegion(t *testing.T) {
	top, ok := ShadowRegion(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 30}, platform.EdgeTop)
	assert.True(t, ok)
	assert.Equal(t, platform.Rect{X: 0, Y: 0, Width: 1920, Height: 60}, top)

	bottom, ok := ShadowRegion(platform.Rect{X: 0, Y: 1050, Width: 1920, Height: 30}, platform.EdgeBottom)
	assert.True(t, ok)
	assert.Equal(t, platform.Rect{X: 0, Y: 1000, Width: 1920, Height: 90}, bottom)

	_, ok = ShadowRegion(platform.Rect{Width: 40, Height: 1080}, platform.EdgeLeft)
	assert.False(t, ok)
}
