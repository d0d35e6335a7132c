package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/buyers"
	"github.com/mazroni9/DasmAdminPanel/internal/clock"
	"github.com/mazroni9/DasmAdminPanel/internal/config"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/notify"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/memory"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/mongodb"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/postgres"
	"github.com/mazroni9/DasmAdminPanel/migrations"
)

const startupTimeout = 5 * time.Second

// stack is the set of services one process runs with.
type stack struct {
	Directory app.BuyerDirectory
	Broadcast *app.BroadcastService
	Offers    *app.OfferService

	// Notifications is set only when MongoDB is configured.
	Notifications *mongodb.NotificationStore

	closers []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func buildStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*stack, error) {
	s := &stack{}

	emitter, err := buildEmitter(ctx, cfg.Mongo, logger, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	var (
		offers  app.OfferRepository
		actions app.ActionLog
	)
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := connectPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)

		applied, err := migrations.Apply(ctx, pool)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("applied migrations", "names", applied)
		}

		directory := postgres.NewBuyerRepository(pool)
		if cfg.Store.BuyersFile != "" {
			seed, err := buyers.LoadFile(cfg.Store.BuyersFile)
			if err != nil {
				s.Close()
				return nil, err
			}
			if err := directory.UpsertBuyers(ctx, seed); err != nil {
				s.Close()
				return nil, fmt.Errorf("seed buyers: %w", err)
			}
			logger.Info("seeded buyer directory", "file", cfg.Store.BuyersFile, "buyers", len(seed))
		}

		s.Directory = directory
		offers = postgres.NewOfferRepository(pool)
		actions = postgres.NewActionLog(pool)
	default:
		directory, err := loadDirectory(cfg.Store.BuyersFile)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Directory = memory.NewBuyerDirectory(directory)
		offers = memory.NewOfferStore()
		actions = memory.NewActionLog()
	}

	clk := clock.NewSystem()
	s.Broadcast = app.NewBroadcastService(s.Directory, offers, emitter, clk,
		app.WithDefaultSeller(cfg.Offers.DefaultSellerID),
		app.WithBroadcastLogger(logger),
	)
	s.Offers = app.NewOfferService(offers, actions, emitter, clk, app.WithOfferLogger(logger))
	return s, nil
}

func buildEmitter(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger, s *stack) (notify.Emitter, error) {
	logEmitter := notify.NewLogEmitter(logger)
	if !cfg.Enabled() {
		return logEmitter, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	client, err := mongodb.Connect(connectCtx, cfg.URI)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		_ = client.Disconnect(context.Background())
	})

	store := mongodb.NewNotificationStore(client, cfg.Database)
	if err := store.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("failed to create notification indexes", "error", err)
	}
	s.Notifications = store
	return notify.Fanout{logEmitter, store}, nil
}

func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(startupCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

func loadDirectory(path string) ([]domain.BuyerProfile, error) {
	if path == "" {
		return buyers.Default(), nil
	}
	return buyers.LoadFile(path)
}
