package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/task-manager/internal/config"
	"github.com/adanyl0v/task-manager/internal/storage"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
	"github.com/adanyl0v/task-manager/internal/storage/mongodb"
	"github.com/adanyl0v/task-manager/internal/storage/postgres"
)

// MustConnectStore opens the store named by the scheme of cfg.URL and makes
// sure it answers.
func MustConnectStore(cfg config.DatabaseConfig) storage.Store {
	connURL, err := url.Parse(cfg.URL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse database url")
		panic(err)
	}

	var store storage.Store
	switch connURL.Scheme {
	case "mongodb", "mongodb+srv":
		store, err = connectMongo(cfg)
	case "postgres", "postgresql":
		store, err = connectPostgres(cfg)
	case "memory":
		store = memory.New()
	default:
		err = fmt.Errorf("unsupported database scheme: %q", connURL.Scheme)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("scheme", connURL.Scheme).
			Msg("failed to connect to database")
		panic(err)
	}

	globalLogger.Info().
		Str("scheme", connURL.Scheme).
		Str("host", connURL.Host).
		Str("database", cfg.Name).
		Msg("connected to database")
	return store
}

func connectMongo(cfg config.DatabaseConfig) (storage.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return mongodb.New(client, cfg.Name), nil
}

func connectPostgres(cfg config.DatabaseConfig) (storage.Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.Database = cfg.Name
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return postgres.New(pool), nil
}

func MustMigrateStore(store storage.Store, cfg config.DatabaseConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	err := store.Migrate(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate database")
		panic(err)
	}
	globalLogger.Info().Msg("migrated database")
}

func DisconnectStore(store storage.Store, cfg config.DatabaseConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	err := store.Close(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from database")
		return
	}
	globalLogger.Info().Msg("disconnected from database")
}
