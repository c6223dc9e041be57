package mailcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mailcast/internal/config"
	"github.com/dmitrymomot/mailcast/internal/failurelog"
	"github.com/dmitrymomot/mailcast/internal/recipientlist"
	"github.com/dmitrymomot/mailcast/pkg/db"
	"github.com/dmitrymomot/mailcast/pkg/redis"
	"github.com/dmitrymomot/mailcast/pkg/repository"
)

// storage holds the repositories behind the list and failure-log services.
type storage struct {
	lists    repository.Repository[recipientlist.List]
	failures repository.Repository[failurelog.Entry]
	checks   map[string]func(context.Context) error
	close    func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return &storage{
			lists:    repository.NewMemory[recipientlist.List](),
			failures: repository.NewMemory[failurelog.Entry](),
		}, nil

	case config.StorageRedis:
		client, err := redis.Open(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		prefix := repository.WithPrefix(cfg.StoragePrefix)
		return &storage{
			lists:    repository.NewRedis[recipientlist.List](client, recipientlist.Namespace, nil, prefix),
			failures: repository.NewRedis[failurelog.Entry](client, failurelog.Namespace, nil, prefix),
			checks:   map[string]func(context.Context) error{"redis": redis.Healthcheck(client)},
			close:    redis.Shutdown(client),
		}, nil

	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if err := db.Migrate(ctx, pool, repository.Migrations, repository.MigrationsDir, cfg.DB.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres storage: %w", err)
		}
		return &storage{
			lists:    repository.NewPostgres[recipientlist.List](pool, recipientlist.Namespace, nil),
			failures: repository.NewPostgres[failurelog.Entry](pool, failurelog.Namespace, nil),
			checks:   map[string]func(context.Context) error{"postgres": db.Healthcheck(pool)},
			close:    db.Shutdown(pool),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}
}
