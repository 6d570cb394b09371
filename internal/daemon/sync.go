package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskshell/internal/configstore"
)

const reloadTimeout = 10 * time.Second

// Reloader applies a changed store file.
type Reloader interface {
	Reload(ctx context.Context) error
}

// StoreSynchronizer reloads the shell when its store file changes on disk.
type StoreSynchronizer struct {
	reloader Reloader
	watcher  *configstore.Watcher
	logger   *slog.Logger
}

// NewStoreSynchronizer creates a synchronizer for the store at path.
func NewStoreSynchronizer(path string, reloader Reloader, logger *slog.Logger) (*StoreSynchronizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &StoreSynchronizer{
		reloader: reloader,
		logger:   logger,
	}
	watcher, err := configstore.NewWatcher(path, s.HandleStoreChanged, logger)
	if err != nil {
		return nil, err
	}
	s.watcher = watcher
	return s, nil
}

// Start begins watching the store file.
func (s *StoreSynchronizer) Start() error {
	return s.watcher.Start()
}

// Stop stops watching.
func (s *StoreSynchronizer) Stop() error {
	return s.watcher.Stop()
}

// HandleStoreChanged is called when the store file was written.
func (s *StoreSynchronizer) HandleStoreChanged() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	s.logger.Debug("store file changed, reloading")
	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Warn("store reload failed", "error", err)
	}
}
