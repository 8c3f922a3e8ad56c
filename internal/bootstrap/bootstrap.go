// Package bootstrap assembles the storage backend, use cases and background services
// shared by the HTTP server and the terminal client.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/config"
	"github.com/shxlzz/To-Do-List/internal/infrastructure/buffer"
	"github.com/shxlzz/To-Do-List/internal/infrastructure/monitor"
	pgInfra "github.com/shxlzz/To-Do-List/internal/infrastructure/postgres"
	redisInfra "github.com/shxlzz/To-Do-List/internal/infrastructure/redis"
	"github.com/shxlzz/To-Do-List/internal/services"
	"github.com/shxlzz/To-Do-List/internal/services/lifecycle"
	"github.com/shxlzz/To-Do-List/repository"
	boltRepo "github.com/shxlzz/To-Do-List/repository/bolt"
	pgRepo "github.com/shxlzz/To-Do-List/repository/postgres"
	redisRepo "github.com/shxlzz/To-Do-List/repository/redis"
	"github.com/shxlzz/To-Do-List/usecase"
	"github.com/shxlzz/To-Do-List/usecase/account"
	"github.com/shxlzz/To-Do-List/usecase/app"
)

// Runtime is a fully wired application.
type Runtime struct {
	App       *app.App
	Monitor   *monitor.Monitor
	Lifecycle *lifecycle.Manager
	Store     repository.KVStore
}

// Shutdown runs the registered hooks: flush accounts, stop background work, close storage.
func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.Lifecycle.Shutdown(ctx)
}

// Build opens the configured backend and wires the application on top of it.
// On error every resource opened so far has already been released.
func Build(ctx context.Context, cfg *config.Config, renderer usecase.Renderer, logger *zap.Logger) (rt *Runtime, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, logger)
	defer func() {
		if err != nil {
			_ = manager.Shutdown(context.Background())
		}
	}()

	kv, mon, err := openBackend(ctx, cfg, manager, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := passwordHasher(cfg.Security.PasswordHashing)
	if err != nil {
		return nil, err
	}

	accounts, err := account.Open(ctx,
		repository.NewAccountRepository(kv),
		repository.NewSessionRepository(kv),
		hasher,
		logger.Named("accounts"),
	)
	if err != nil {
		return nil, fmt.Errorf("open accounts: %w", err)
	}

	application := app.New(accounts, renderer, logger)
	if _, err := application.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	manager.Register("accounts", application.Flush)

	return &Runtime{
		App:       application,
		Monitor:   mon,
		Lifecycle: manager,
		Store:     kv,
	}, nil
}

func openBackend(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (repository.KVStore, *monitor.Monitor, error) {
	var primary repository.KVStore

	switch cfg.Storage.Backend {
	case config.BackendBolt:
		store, err := boltRepo.Open(cfg.Storage.BoltPath, cfg.Storage.BoltBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		logger.Info("using bolt storage", zap.String("path", cfg.Storage.BoltPath))
		primary = store

	case config.BackendRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("redis client: %w", err)
		}
		primary = redisRepo.NewStore(client, cfg.Redis.KeyPrefix)

	case config.BackendPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			logger.Warn("migrations not applied", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		primary = pgRepo.NewStore(pool)

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
	manager.Register("storage", func(context.Context) error {
		return primary.Close()
	})

	if !cfg.RemoteBackend() {
		mon := monitor.New(cfg.Storage.Backend, primary, nil, cfg.Storage.MonitorInterval, logger.Named("monitor"))
		mon.Start()
		manager.Register("monitor", func(context.Context) error {
			mon.Stop()
			return nil
		})
		return primary, mon, nil
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		return nil, nil, fmt.Errorf("open buffer store: %w", err)
	}
	manager.Register("buffer", func(context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(cfg.Storage.Backend, primary, bufferStore, cfg.Storage.MonitorInterval, logger.Named("monitor"))
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	processor := services.NewBufferProcessor(
		bufferStore,
		mon,
		primary,
		logger.Named("buffer"),
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			MaxAge:     cfg.Buffer.MaxAge,
		},
	)
	processor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		processor.Stop(ctx)
		// last chance to push pending writes before the backend is closed
		return processor.Drain(ctx)
	})

	return services.NewBufferedStore(primary, processor), mon, nil
}

func passwordHasher(mode string) (account.PasswordHasher, error) {
	switch mode {
	case config.HashingBcrypt, "":
		return account.BcryptHasher{}, nil
	case config.HashingPlain:
		return account.PlainHasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported password hashing %q", mode)
	}
}
