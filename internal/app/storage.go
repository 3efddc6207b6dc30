// AngelaMos | 2026
// storage.go

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/store/memory"
)

// Storage is the opened entity store. DB is nil for the memory driver.
type Storage struct {
	Stores Stores
	DB     *core.Database
	Memory *memory.Store
}

func OpenStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		mem := memory.New()
		logger.Warn("using in-memory storage, data is lost on exit")
		return &Storage{Stores: MemoryStores(mem), Memory: mem}, nil

	case config.StorageDriverPostgres:
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected",
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)

		if cfg.Database.AutoMigrate {
			if err := db.MigrateUp(); err != nil {
				_ = db.Close() //nolint:errcheck // cleanup on migration failure
				return nil, err
			}
			logger.Info("database migrations applied")
		}

		return &Storage{Stores: PostgresStores(db.DB), DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Ping checks whichever backend is open.
func (s *Storage) Ping(ctx context.Context) error {
	if s.DB != nil {
		return s.DB.Ping(ctx)
	}
	return s.Memory.Ping(ctx)
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
