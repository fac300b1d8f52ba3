package persistence

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend selected by cfg.Storage.Backend. The returned closer
// releases the backend's connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KeyValueStore, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile, "":
		store, err := NewFile(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file storage", zap.String("dir", cfg.Storage.Dir))
		return store, nopCloser{}, nil
	case config.BackendSQLite:
		store, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return store, store, nil
	case config.BackendRedis:
		store := NewRedis(cfg.Redis, logger)
		return store, store, nil
	case config.BackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if pg.PoolHandle() == nil {
			return nil, nil, errPostgresNotConfigured
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				_ = pg.Close()
				return nil, nil, err
			}
		}
		return pg, pg, nil
	case config.BackendMemory:
		logger.Warn("using in-memory storage; state is lost on exit")
		return NewMemory(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
