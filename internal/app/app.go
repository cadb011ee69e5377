package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/josh-kwaku/ledger-write-service/internal/config"
	"github.com/josh-kwaku/ledger-write-service/internal/events"
	"github.com/josh-kwaku/ledger-write-service/internal/events/kafka"
	"github.com/josh-kwaku/ledger-write-service/internal/repository"
	"github.com/josh-kwaku/ledger-write-service/internal/repository/memory"
	"github.com/josh-kwaku/ledger-write-service/internal/service/ledger"
)

type publisher interface {
	Publish(ctx context.Context, event events.TransactionEvent) error
	Close() error
}

// App holds the wired ledger and the resources it owns. DB is nil for the
// memory backend.
type App struct {
	Ledger    *ledger.Service
	DB        *sql.DB
	Backend   string
	publisher publisher
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Backend: cfg.StorageBackend}

	var store repository.Store
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
			MaxOpenConns:     cfg.DBMaxOpenConns,
			MaxIdleConns:     cfg.DBMaxIdleConns,
			ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
			ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
			ConnectAttempts:  cfg.DBConnectAttempts,
		})
		if err != nil {
			return nil, fmt.Errorf("app.New: %w", err)
		}
		a.DB = db
		store = repository.NewPostgresStore(db)
	case config.BackendMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("app.New: unknown storage backend %q", cfg.StorageBackend)
	}

	if len(cfg.KafkaBrokers) > 0 {
		a.publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("publishing ledger events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		a.publisher = events.Noop{}
	}

	a.Ledger = ledger.NewService(store, a.publisher)
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
