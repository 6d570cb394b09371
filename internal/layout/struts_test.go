package layout

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestComputeStruts_TopReservingLeftNot(t *testing.T) {
	panels := []Reservation{
		{Edge: platform.EdgeTop, Size: platform.Size{Width: 1920, Height: 30}, Reserve: true},
		{Edge: platform.EdgeLeft, Size: platform.Size{Width: 40, Height: 1080}, Reserve: false},
	}

	got := ComputeStruts(panels)
	assert.Equal(t, platform.Struts{Left: 0, Right: 0, Top: 30, Bottom: 0}, got)
}

func TestComputeStruts_SumsPerEdge(t *testing.T) {
	panels := []Reservation{
		{Edge: platform.EdgeTop, Size: platform.Size{Height: 30}, Reserve: true},
		{Edge: platform.EdgeTop, Size: platform.Size{Height: 24}, Reserve: true},
		{Edge: platform.EdgeRight, Size: platform.Size{Width: 48}, Reserve: true},
		{Edge: platform.EdgeBottom, Size: platform.Size{Height: 64}, Reserve: true},
		{Edge: platform.EdgeBottom, Size: platform.Size{Height: 10}, Reserve: false},
	}

	got := ComputeStruts(panels)
	assert.Equal(t, platform.Struts{Right: 48, Top: 54, Bottom: 64}, got)
}

func TestComputeStruts_Empty(t *testing.T) {
	assert.True(t, ComputeStruts(nil).IsZero())
}

func TestComputeStruts_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	edges := []platform.Edge{platform.EdgeLeft, platform.EdgeTop, platform.EdgeRight, platform.EdgeBottom}

	for round := 0; round < 50; round++ {
		n := rng.Intn(12)
		panels := make([]Reservation, n)
		var want platform.Struts
		for i := range panels {
			p := Reservation{
				Edge:    edges[rng.Intn(len(edges))],
				Size:    platform.Size{Width: rng.Intn(200), Height: rng.Intn(200)},
				Reserve: rng.Intn(2) == 0,
			}
			panels[i] = p
			if p.Reserve {
				want.Add(p.Edge, p.Thickness())
			}
		}

		assert.Equal(t, want, ComputeStruts(panels))

		rng.Shuffle(len(panels), func(i, j int) { panels[i], panels[j] = panels[j], panels[i] })
		assert.Equal(t, want, ComputeStruts(panels), "round %d after shuffle", round)
	}
}

func TestWorkArea(t *testing.T) {
	screen := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	got := WorkArea(screen, platform.Struts{Left: 40, Top: 30, Bottom: 64})
	assert.Equal(t, platform.Rect{X: 40, Y: 30, Width: 1880, Height: 986}, got)

	tiny := WorkArea(platform.Rect{Width: 10, Height: 10}, platform.Struts{Left: 20, Top: 20})
	assert.Equal(t, 0, tiny.Width)
	assert.Equal(t, 0, tiny.Height)
}
