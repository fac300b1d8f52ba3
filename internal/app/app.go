package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/auth"
	"github.com/deskops/helpdesk/internal/config"
	"github.com/deskops/helpdesk/internal/events"
	"github.com/deskops/helpdesk/internal/observability"
	"github.com/deskops/helpdesk/internal/persistence"
	"github.com/deskops/helpdesk/internal/repository"
	"github.com/deskops/helpdesk/internal/service"
)

// App is one opened profile: its storage, stores and services.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Store       persistence.KeyValueStore
	Dispatcher  events.Dispatcher
	Directory   *auth.Directory
	Sessions    *service.SessionStore
	TicketStore *service.TicketStore
	Tickets     *service.TicketService

	closer io.Closer
	lock   *flock.Flock
}

// ErrProfileLocked is returned by New while another process has the profile open.
var ErrProfileLocked = errors.New("profile is in use by another process")

const lockFileName = "helpdesk.lock"

// Options tunes New. Zero values are fine.
type Options struct {
	Metrics *observability.Metrics
	// Notices receives user-facing notices derived from store events.
	Notices func(service.Notice)
}

// New opens the configured storage backend and restores the profile state.
// The stores write through from their in-memory copy, so a profile is held by
// one process at a time through a lock file in the data directory.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	lock, err := lockProfile(cfg)
	if err != nil {
		return nil, err
	}

	store, closer, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		unlock(lock)
		return nil, err
	}

	directory, err := loadDirectory(cfg.Directory.File, logger)
	if err != nil {
		_ = closer.Close()
		unlock(lock)
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, cfg.Notification, opts.Notices).RegisterHandlers()

	sessions := service.NewSessionStore(ctx, service.SessionStoreDependencies{
		Repo:       repository.NewSessionRepository(store, cfg.Storage.KeyPrefix),
		Identities: directory,
		Dispatcher: dispatcher,
		Metrics:    opts.Metrics,
		Logger:     logger,
	})
	tickets := service.NewTicketStore(ctx, service.TicketStoreDependencies{
		Repo:               repository.NewTicketRepository(store, cfg.Storage.KeyPrefix),
		Dispatcher:         dispatcher,
		Metrics:            opts.Metrics,
		Logger:             logger,
		EnforceTransitions: cfg.Tickets.EnforceTransitions,
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Metrics:     opts.Metrics,
		Store:       store,
		Dispatcher:  dispatcher,
		Directory:   directory,
		Sessions:    sessions,
		TicketStore: tickets,
		Tickets:     service.NewTicketService(tickets, sessions, logger),
		closer:      closer,
		lock:        lock,
	}, nil
}

// Close releases the storage backend and the profile lock.
func (a *App) Close() error {
	var err error
	if a.closer != nil {
		err = a.closer.Close()
	}
	if a.lock != nil {
		err = errors.Join(err, a.lock.Unlock())
	}
	return err
}

// lockProfile takes the profile lock. The memory backend has nothing to share.
func lockProfile(cfg *config.Config) (*flock.Flock, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Storage.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(cfg.Storage.Dir, lockFileName)
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock profile %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrProfileLocked, path)
	}
	return lock, nil
}

func unlock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

// loadDirectory reads the user directory. A missing file yields an empty
// directory so the desk still starts; nobody can sign in until it exists.
func loadDirectory(path string, logger *zap.Logger) (*auth.Directory, error) {
	directory, err := auth.LoadDirectory(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("user directory not found, sign-in disabled", zap.String("path", path))
		return auth.NewDirectory(nil)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("user directory loaded", zap.String("path", path), zap.Int("users", directory.Len()))
	return directory, nil
}
