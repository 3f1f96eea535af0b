package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-platform/internal/api/handler"
	"github.com/quillpress/blog-platform/internal/core/ports"
	"github.com/quillpress/blog-platform/internal/infrastructure/db/memory"
	mongostore "github.com/quillpress/blog-platform/internal/infrastructure/db/mongo"
	"github.com/quillpress/blog-platform/internal/infrastructure/db/postgres"
	"github.com/quillpress/blog-platform/internal/pkg/config"
)

// store is what every backend provides to the services.
type store interface {
	ports.Transactor
	Users() ports.UserRepository
	Posts() ports.PostRepository
	Comments() ports.CommentRepository
	Activity() ports.ActivityRepository
}

// openStore connects the configured backend. The returned pingers feed the
// readiness endpoint and closeFn releases the connection.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, map[string]handler.Pinger, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		s := mongostore.NewStore(client, db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return s, map[string]handler.Pinger{"mongodb": s}, closeFn, nil

	case config.DriverPostgres:
		dsn := cfg.Postgres.URL()
		applied, err := postgres.MigrateUp(dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		if applied {
			log.Info().Msg("applied postgres migrations")
		}
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres open: %w", err)
		}
		s := postgres.NewStore(db)
		log.Info().Str("host", cfg.Postgres.Host).Str("database", cfg.Postgres.DBName).Msg("connected to postgres")
		return s, map[string]handler.Pinger{"postgres": s}, func() { _ = db.Close() }, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewStore(), map[string]handler.Pinger{}, func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
