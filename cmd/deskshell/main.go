// Command deskshell runs the desktop shell: panels, desktop and dash.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var globalOpts struct {
	configPath string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "deskshell",
	Short: "Desktop shell for X11 window managers",
	Long: `deskshell draws the desktop background, panels with their widgets and
the application dash, and reserves screen space for the panels so that
maximized windows do not cover them.

The shell graph is read from a TOML store (see "store" in config.yaml) and
is written back on exit.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/deskshell/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "",
		"Override log_level: debug, info, warning, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "deskshell: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs text to a terminal and JSON otherwise, which suits the
// journal when started from a session manager.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
