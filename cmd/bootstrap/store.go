package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hotel-booking/internal/infra/badgerstore"
	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/infra/kvstore"
	"hotel-booking/internal/infra/pgsql"
	"hotel-booking/internal/infra/redisstore"
	"hotel-booking/internal/infra/uow"
	"hotel-booking/internal/pkg/config"
	"hotel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStore,
	),
)

type StoreResult struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	Pinger     shared.Pinger
}

type storeUnit interface {
	shared.UnitOfWork
	shared.Pinger
}

// NewStore opens the backend selected by STORE_DRIVER and closes it on stop.
func NewStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (StoreResult, error) {
	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var (
		unit    storeUnit
		cleanup func() error
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := kvstore.NewStore(kvstore.NewMemoryBackend(), logger)
		unit, cleanup = store, store.Close

	case config.StoreDriverRedis:
		store := kvstore.NewStore(redisstore.NewBackend(redisstore.NewClient(cfg.Redis), cfg.Redis.KeyPrefix), logger)
		if err := store.Ping(connectCtx); err != nil {
			_ = store.Close()
			return StoreResult{}, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		unit, cleanup = store, store.Close

	case config.StoreDriverBadger:
		bdb, err := badgerstore.Open(cfg.Badger, logger)
		if err != nil {
			return StoreResult{}, err
		}
		store := kvstore.NewStore(badgerstore.NewBackend(bdb), logger)
		unit, cleanup = store, store.Close

	case config.StoreDriverPostgres:
		pool, closePool, err := db.Connect(connectCtx, cfg.DB)
		if err != nil {
			return StoreResult{}, err
		}
		unit = uow.NewPostgresUoW(pool, pgsql.NewQueries(), logger)
		cleanup = func() error {
			closePool()
			return nil
		}

	default:
		return StoreResult{}, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	logger.Info("ストアを初期化しました", "driver", cfg.Store.Driver)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return cleanup()
		},
	})

	return StoreResult{UnitOfWork: unit, Pinger: unit}, nil
}
