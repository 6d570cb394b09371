package mixer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls  []string
	output string
	err    error
}

func (r *recorder) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return []byte(r.output), r.err
}

func newFake(r *recorder) *Pactl {
	return &Pactl{run: r.run, look: func(string) (string, error) { return "/usr/bin/pactl", nil }}
}

func TestVolume_ParsesFirstChannel(t *testing.T) {
	r := &recorder{output: "Volume: front-left: 26214 /  40% / -23.88 dB,   front-right: 26214 /  45% / -23.88 dB\n"}
	got, err := newFake(r).Volume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, got)
	assert.Equal(t, []string{"pactl get-sink-volume @DEFAULT_SINK@"}, r.calls)
}

func TestVolume_UnexpectedOutput(t *testing.T) {
	_, err := newFake(&recorder{output: "garbage"}).Volume(context.Background())
	assert.Error(t, err)
}

func TestSetVolume_Clamps(t *testing.T) {
	r := &recorder{}
	p := newFake(r)
	require.NoError(t, p.SetVolume(context.Background(), 200))
	require.NoError(t, p.SetVolume(context.Background(), -5))
	assert.Equal(t, []string{
		"pactl set-sink-volume @DEFAULT_SINK@ 150%",
		"pactl set-sink-volume @DEFAULT_SINK@ 0%",
	}, r.calls)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0, ClampVolume(-10))
	assert.Equal(t, 75, ClampVolume(75))
	assert.Equal(t, MaxVolume, ClampVolume(160))
}

func TestMuted(t *testing.T) {
	muted, err := newFake(&recorder{output: "Mute: yes\n"}).Muted(context.Background())
	require.NoError(t, err)
	assert.True(t, muted)
}

func TestNotAvailable(t *testing.T) {
	p := &Pactl{run: (&recorder{}).run, look: func(string) (string, error) { return "", errors.New("missing") }}
	_, err := p.Volume(context.Background())
	assert.ErrorIs(t, err, ErrPactlNotAvailable)
	assert.ErrorIs(t, p.ToggleMute(context.Background()), ErrPactlNotAvailable)
}
