// Package mixer reads and changes the default sink volume through pactl.
package mixer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ErrPactlNotAvailable is returned when pactl is not installed
var ErrPactlNotAvailable = errors.New("pactl is not available in PATH")

const defaultSink = "@DEFAULT_SINK@"

// MaxVolume is the highest level SetVolume applies, in percent.
const MaxVolume = 150

var percentPattern = regexp.MustCompile(`(\d+)%`)

// runFunc runs a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Pactl controls the default PulseAudio/PipeWire sink.
type Pactl struct {
	run  runFunc
	look func(string) (string, error)
}

// NewPactl returns a mixer backed by the pactl binary.
func NewPactl() *Pactl {
	return &Pactl{run: runCommand, look: exec.LookPath}
}

// Available returns true if pactl is installed
func (p *Pactl) Available() bool {
	_, err := p.look("pactl")
	return err == nil
}

// Volume returns the default sink volume in percent. With several channels
// the first one is reported.
func (p *Pactl) Volume(ctx context.Context) (int, error) {
	if !p.Available() {
		return 0, ErrPactlNotAvailable
	}
	out, err := p.run(ctx, "pactl", "get-sink-volume", defaultSink)
	if err != nil {
		return 0, err
	}
	return parseVolume(string(out))
}

// ClampVolume limits percent to 0..MaxVolume.
func ClampVolume(percent int) int {
	return max(0, min(percent, MaxVolume))
}

// SetVolume sets the default sink volume, clamped with ClampVolume.
func (p *Pactl) SetVolume(ctx context.Context, percent int) error {
	if !p.Available() {
		return ErrPactlNotAvailable
	}
	percent = ClampVolume(percent)
	_, err := p.run(ctx, "pactl", "set-sink-volume", defaultSink, strconv.Itoa(percent)+"%")
	return err
}

// Muted reports whether the default sink is muted.
func (p *Pactl) Muted(ctx context.Context) (bool, error) {
	if !p.Available() {
		return false, ErrPactlNotAvailable
	}
	out, err := p.run(ctx, "pactl", "get-sink-mute", defaultSink)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(string(out)), "yes"), nil
}

// ToggleMute flips the default sink's mute state.
func (p *Pactl) ToggleMute(ctx context.Context) error {
	if !p.Available() {
		return ErrPactlNotAvailable
	}
	_, err := p.run(ctx, "pactl", "set-sink-mute", defaultSink, "toggle")
	return err
}

func parseVolume(out string) (int, error) {
	m := percentPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("unexpected pactl output: %q", strings.TrimSpace(out))
	}
	return strconv.Atoi(m[1])
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s failed: %s", name, strings.Join(args, " "), msg)
		}
		return nil, fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}
