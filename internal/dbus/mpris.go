package dbus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix    = "org.mpris.MediaPlayer2."
	mprisPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayer    = "org.mpris.MediaPlayer2.Player"
	propertiesGet  = "org.freedesktop.DBus.Properties.Get"
	listNamesQuery = "org.freedesktop.DBus.ListNames"
)

// Track is what a media player reports as currently playing.
type Track struct {
	Player string
	Title  string
	Artist string
	Status string // Playing, Paused or Stopped
}

// Media controls MPRIS media players on the session bus.
type Media struct {
	conn *dbus.Conn
}

// NewMedia returns an MPRIS client on conn.
func NewMedia(conn *dbus.Conn) *Media {
	return &Media{conn: conn}
}

// Players lists the MPRIS player names without the bus prefix, sorted.
func (m *Media) Players(ctx context.Context) ([]string, error) {
	var names []string
	if err := m.conn.BusObject().CallWithContext(ctx, listNamesQuery, 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, strings.TrimPrefix(name, mprisPrefix))
		}
	}
	sort.Strings(players)
	return players, nil
}

// NowPlaying returns the current track of player.
func (m *Media) NowPlaying(ctx context.Context, player string) (Track, error) {
	obj := m.conn.Object(mprisPrefix+player, mprisPath)

	track := Track{Player: player}

	var status dbus.Variant
	if err := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayer, "PlaybackStatus").Store(&status); err != nil {
		return track, fmt.Errorf("%s playback status: %w", player, err)
	}
	track.Status, _ = status.Value().(string)

	var metadata dbus.Variant
	if err := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayer, "Metadata").Store(&metadata); err != nil {
		return track, fmt.Errorf("%s metadata: %w", player, err)
	}
	fields, _ := metadata.Value().(map[string]dbus.Variant)
	if v, ok := fields["xesam:title"]; ok {
		track.Title, _ = v.Value().(string)
	}
	if v, ok := fields["xesam:artist"]; ok {
		if artists, ok := v.Value().([]string); ok {
			track.Artist = strings.Join(artists, ", ")
		}
	}
	return track, nil
}

// PlayPause toggles playback.
func (m *Media) PlayPause(ctx context.Context, player string) error {
	return m.call(ctx, player, "PlayPause")
}

// Next skips to the next track.
func (m *Media) Next(ctx context.Context, player string) error {
	return m.call(ctx, player, "Next")
}

// Previous goes back to the previous track.
func (m *Media) Previous(ctx context.Context, player string) error {
	return m.call(ctx, player, "Previous")
}

func (m *Media) call(ctx context.Context, player, method string) error {
	obj := m.conn.Object(mprisPrefix+player, mprisPath)
	if err := obj.CallWithContext(ctx, mprisPlayer+"."+method, 0).Err; err != nil {
		return fmt.Errorf("%s %s: %w", player, method, err)
	}
	return nil
}
