package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/memstore"
	"github.com/dmitrymomot/tenantq/internal/usage/mongostore"
	"github.com/dmitrymomot/tenantq/internal/usage/pgstore"
	"github.com/dmitrymomot/tenantq/internal/usage/redisstore"
	"github.com/dmitrymomot/tenantq/pkg/httpserver"
	"github.com/dmitrymomot/tenantq/pkg/mongo"
	"github.com/dmitrymomot/tenantq/pkg/pg"
	"github.com/dmitrymomot/tenantq/pkg/redis"
)

// storage is the selected usage store with its readiness check and cleanup.
type storage struct {
	store usage.Store
	check httpserver.Check
	close func(context.Context) error
}

func openStorage(ctx context.Context, s settings, log *slog.Logger) (*storage, error) {
	switch s.App.StorageDriver {
	case driverMemory, "":
		st := memstore.New()
		return &storage{
			store: st,
			check: httpserver.Check{Name: driverMemory, Probe: st.Ping},
			close: func(context.Context) error { return nil },
		}, nil

	case driverRedis:
		client, err := redis.Connect(ctx, s.Redis)
		if err != nil {
			return nil, err
		}
		return &storage{
			store: redisstore.New(client, redisstore.WithPrefix(s.App.RedisKeyPrefix)),
			check: httpserver.Check{Name: driverRedis, Probe: redis.Healthcheck(client)},
			close: func(context.Context) error { return client.Close() },
		}, nil

	case driverPostgres:
		pool, err := pg.Connect(ctx, s.PG)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, s.PG, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			store: pgstore.New(pool),
			check: httpserver.Check{Name: driverPostgres, Probe: pg.Healthcheck(pool)},
			close: func(context.Context) error { pool.Close(); return nil },
		}, nil

	case driverMongo:
		db, err := mongo.ConnectDatabase(ctx, s.Mongo)
		if err != nil {
			return nil, err
		}
		client := db.Client()
		return &storage{
			store: mongostore.New(db, s.App.MongoCollection),
			check: httpserver.Check{Name: driverMongo, Probe: mongo.Healthcheck(client)},
			close: client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.App.StorageDriver)
	}
}
