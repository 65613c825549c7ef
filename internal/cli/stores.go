package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"logic-quiz-service/internal/app"
	"logic-quiz-service/internal/bank"
	"logic-quiz-service/internal/config"
	"logic-quiz-service/internal/infra/csvfile"
	"logic-quiz-service/internal/infra/memory"
	"logic-quiz-service/internal/infra/postgres"
	redisinfra "logic-quiz-service/internal/infra/redis"
	"logic-quiz-service/internal/infra/sqlite"
)

// backend is the storage wiring chosen by configuration.
type backend struct {
	results  app.ResultStore
	sessions app.SessionRepository
	closers  []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, redisClient.Close)
	}

	switch cfg.Storage.Backend {
	case "memory":
		b.results = memory.NewResultStore()
	case "redis":
		b.results = redisinfra.NewResultStore(redisClient)
	case "postgres":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			b.Close()
			return nil, err
		}
		db := postgres.OpenDB(cfg.Postgres.URL)
		b.closers = append(b.closers, db.Close)
		b.results = postgres.NewResultStore(db)
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, store.Close)
		b.results = store
	default:
		store, err := csvfile.NewResultStore(cfg.Storage.Dir)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.results = store
	}

	if redisClient != nil {
		b.sessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		b.sessions = memory.NewSessionStore()
	}
	return b, nil
}

// loadCatalog builds the question bank from the configured source.
func loadCatalog(ctx context.Context, cfg config.Config) (*bank.Bank, error) {
	switch cfg.Catalog.Source {
	case "file":
		return bank.Load(ctx, bank.NewFileLoader(cfg.Catalog.Path))
	case "postgres":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect catalog db: %w", err)
		}
		defer pool.Close()
		return bank.Load(ctx, postgres.NewCatalogLoader(pool))
	default:
		return bank.Default(), nil
	}
}

// openServices wires config into the use cases shared by the server and the terminal commands.
func openServices(ctx context.Context, path string) (config.Config, *backend, *bank.Bank, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, nil, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return cfg, nil, nil, err
	}
	questions, err := loadCatalog(ctx, cfg)
	if err != nil {
		b.Close()
		return cfg, nil, nil, err
	}
	return cfg, b, questions, nil
}
