package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"lab-booking/internal/domain/window"
	"lab-booking/internal/infra/db"
	"lab-booking/internal/infra/purge"
	"lab-booking/internal/infra/repository"
	"lab-booking/internal/infra/snapshot"
	"lab-booking/internal/pkg/clock"
	"lab-booking/internal/pkg/config"
	"lab-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewReservationStore,
	),
)

type StoreParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Policy    window.Policy
	Clock     clock.Clock
	Logger    *slog.Logger
	// Pool overrides the pool opened from DBConfig for the postgres backend.
	Pool *pgxpool.Pool `optional:"true"`
}

// NewReservationStore opens the backend selected by STORE_BACKEND and closes
// it on shutdown.
func NewReservationStore(p StoreParams) (shared.ReservationStore, error) {
	var (
		store shared.ReservationStore
		err   error
	)
	switch p.Config.Store.Backend {
	case config.BackendSnapshot:
		store, err = openSnapshotStore(p)
	case config.BackendPostgres:
		store, err = openPostgresStore(p)
	case config.BackendSQLite:
		store, err = openSQLiteStore(p)
	default:
		err = fmt.Errorf("unknown store backend %q", p.Config.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	p.Logger.Info("予約ストアを初期化しました", "backend", string(p.Config.Store.Backend))

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func openSnapshotStore(p StoreParams) (shared.ReservationStore, error) {
	if err := os.MkdirAll(p.Config.Store.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	file := snapshot.NewFile(p.Config.Store.SnapshotPath())
	gate := purge.NewIntervalGate(p.Config.Store.PurgeInterval)
	return snapshot.Open(file, p.Policy, gate, p.Logger, p.Clock.Now())
}

func openPostgresStore(p StoreParams) (shared.ReservationStore, error) {
	pool := p.Pool
	if pool == nil {
		opened, cleanup, err := db.Connect(p.Config.DB)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		pool = opened
	}

	if p.Config.DB.AutoMigrate {
		if err := db.MigratePostgres(context.Background(), pool); err != nil {
			return nil, err
		}
	}

	store := repository.NewPostgresStore(repository.NewQueries(), pool, p.Policy, relationalGate(p), p.Logger)
	if _, err := store.Purge(context.Background(), p.Clock.Now()); err != nil {
		p.Logger.Warn("起動時の期限切れ予約の削除に失敗しました", "error", err.Error())
	}
	return store, nil
}

func openSQLiteStore(p StoreParams) (shared.ReservationStore, error) {
	if err := os.MkdirAll(p.Config.Store.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	pool, err := db.OpenSQLite(db.SQLiteConfig{
		Path:   p.Config.Store.SQLitePath(),
		Logger: p.Logger,
	})
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pool.Close()
		},
	})

	if err := db.MigrateSQLite(context.Background(), pool); err != nil {
		return nil, err
	}

	store := repository.NewSQLiteStore(pool, p.Policy, relationalGate(p), p.Logger)
	if _, err := store.Purge(context.Background(), p.Clock.Now()); err != nil {
		p.Logger.Warn("起動時の期限切れ予約の削除に失敗しました", "error", err.Error())
	}
	return store, nil
}

// relationalGate sweeps once per calendar window, or on the configured
// interval for policies without an anchor.
func relationalGate(p StoreParams) purge.Gate {
	if p.Policy.Kind() == window.KindCalendarWeek {
		return purge.NewAnchorGate(p.Policy.Anchor)
	}
	return purge.NewIntervalGate(p.Config.Store.PurgeInterval)
}
