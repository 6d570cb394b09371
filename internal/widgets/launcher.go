package widgets

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecLauncher starts commands detached from the shell.
type ExecLauncher struct{}

// Launch splits command on whitespace and starts it without waiting.
func (ExecLauncher) Launch(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", parts[0], err)
	}
	// Reap the child so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
