package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/configstore"
	"github.com/1broseidon/deskshell/internal/daemon"
	"github.com/1broseidon/deskshell/internal/dbus"
	"github.com/1broseidon/deskshell/internal/hotkeys"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/mixer"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/widgets"
	godbus "github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
)

const appName = "deskshell"

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(globalOpts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	levelName := cfg.LogLevel
	if globalOpts.logLevel != "" {
		levelName = globalOpts.logLevel
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	applyDisplayEnv(cfg)

	var socketPath string
	if cfg.IPC {
		if socketPath, err = runtimepath.SocketPath(cfg.Socket); err != nil {
			return fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		if alreadyRunning(socketPath) {
			return fmt.Errorf("another deskshell instance is running (%s)", socketPath)
		}
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		return err
	}
	store, err := configstore.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}
	logger.Info("config store opened", "path", storePath, "groups", len(store.Groups()))

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	notifier, services := connectServices(logger)
	notifier.SetEnabled(cfg.NotifyErrors)

	sh := shell.New(backend, store, shell.Options{
		EagerModels: cfg.EagerModels,
		Services:    services,
		Notifier:    notifier,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Loading is the first thing the control thread runs, so calls queued
	// by background components below always see a loaded shell.
	var loadErr error
	sh.Post(func() {
		if loadErr = sh.LoadAll(); loadErr != nil {
			cancel()
			return
		}
		registerHotkeys(backend, sh, cfg, logger)
		logger.Info("deskshell started", "panels", len(sh.Panels()), "struts", sh.Struts())
	})

	ctrl := newController(runCtx, sh)
	stopBackground, err := startBackground(runCtx, cfg, ctrl, socketPath, storePath, logger)
	if err != nil {
		return err
	}

	runErr := sh.Run(runCtx)
	stopBackground()

	if loadErr != nil {
		sh.Close()
		return fmt.Errorf("failed to load shell: %w", loadErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("event loop stopped", "error", runErr)
	}

	logger.Info("shutting down")
	// The control thread has stopped, so the shell is driven directly here.
	if cfg.SaveOnExit {
		if err := sh.SaveAll(); err != nil {
			logger.Error("failed to save shell state", "error", err)
		}
	}
	sh.Close()
	return nil
}

// startBackground starts the goroutines that reach the shell through ctrl and
// returns a function stopping all of them.
func startBackground(ctx context.Context, cfg *config.Config, ctrl *controller, socketPath, storePath string, logger *slog.Logger) (func(), error) {
	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if cfg.IPC {
		srv, err := ipc.NewServer(socketPath, ctrl, logger.With("component", "ipc"))
		if err != nil {
			return nil, fmt.Errorf("failed to create IPC server: %w", err)
		}
		if err := srv.Start(); err != nil {
			return nil, fmt.Errorf("failed to start IPC server: %w", err)
		}
		stops = append(stops, srv.Stop)
	}

	if cfg.WatchStore {
		if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
			stopAll()
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		syncer, err := daemon.NewStoreSynchronizer(storePath, ctrl, logger.With("component", "store-sync"))
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("failed to watch config store: %w", err)
		}
		if err := syncer.Start(); err != nil {
			stopAll()
			return nil, fmt.Errorf("failed to watch config store: %w", err)
		}
		stops = append(stops, func() { _ = syncer.Stop() })
	}

	if cfg.StrutCheckInterval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: time.Duration(cfg.StrutCheckInterval) * time.Second,
			Logger:   logger.With("component", "reconciler"),
		}, ctrl)
		rctx, rcancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			reconciler.Run(rctx)
		}()
		stops = append(stops, func() {
			rcancel()
			<-done
		})
	}

	return stopAll, nil
}

func registerHotkeys(backend platform.Backend, sh *shell.Shell, cfg *config.Config, logger *slog.Logger) {
	handler := hotkeys.NewHandler(backend, sh, logger.With("component", "hotkeys"))
	if cfg.DashHotkey != "" {
		if err := handler.RegisterDash(cfg.DashHotkey); err != nil {
			logger.Warn("failed to register dash hotkey", "key", cfg.DashHotkey, "error", err)
		} else {
			logger.Info("dash hotkey registered", "key", cfg.DashHotkey)
		}
	}
	if err := handler.RegisterWidgets(cfg.Hotkeys); err != nil {
		logger.Warn("failed to register widget hotkeys", "error", err)
	}
}

// connectServices wires the desktop services widgets use. Missing buses or
// tools leave the matching service nil.
func connectServices(logger *slog.Logger) (*dbus.Notifier, widgets.Services) {
	services := widgets.Services{Launcher: widgets.ExecLauncher{}}

	session, err := godbus.SessionBus()
	if err != nil {
		logger.Warn("session bus unavailable; media and notifications disabled", "error", err)
	} else {
		services.Media = dbus.NewMedia(session)
	}

	if system, err := godbus.SystemBus(); err != nil {
		logger.Warn("system bus unavailable; network status disabled", "error", err)
	} else {
		services.Network = dbus.NewNetwork(system)
	}

	if pactl := mixer.NewPactl(); pactl.Available() {
		services.Mixer = pactl
	} else {
		logger.Info("pactl not found; volume control disabled")
	}

	return dbus.NewNotifier(session, appName, logger.With("component", "notify")), services
}

func applyDisplayEnv(cfg *config.Config) {
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
}

func alreadyRunning(socketPath string) bool {
	client := ipc.NewClient(socketPath)
	client.SetTimeout(500 * time.Millisecond)
	return client.Ping() == nil
}
