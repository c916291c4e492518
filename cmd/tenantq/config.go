package main

import (
	"errors"
	"time"

	"github.com/dmitrymomot/tenantq/internal/api"
	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/s3archive"
	"github.com/dmitrymomot/tenantq/pkg/config"
	"github.com/dmitrymomot/tenantq/pkg/httpserver"
	"github.com/dmitrymomot/tenantq/pkg/logger"
	"github.com/dmitrymomot/tenantq/pkg/mongo"
	"github.com/dmitrymomot/tenantq/pkg/pg"
	"github.com/dmitrymomot/tenantq/pkg/redis"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	driverMemory   = "memory"
	driverRedis    = "redis"
	driverPostgres = "postgres"
	driverMongo    = "mongo"
)

type appConfig struct {
	StorageDriver     string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	RedisKeyPrefix    string        `env:"REDIS_KEY_PREFIX" envDefault:"tenantq:usage"`
	MongoCollection   string        `env:"MONGODB_COLLECTION" envDefault:"tenant_usage"`
	SchedulerTimezone string        `env:"SCHEDULER_TIMEZONE" envDefault:"UTC"`
	ShutdownTimeout   time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// settings gathers every config section the binary reads.
type settings struct {
	App     appConfig
	Log     logger.Config
	HTTP    httpserver.Config
	API     api.Config
	Usage   usage.Config
	Archive s3archive.Config
	Redis   redis.Config
	PG      pg.Config
	Mongo   mongo.Config
}

func loadSettings() (settings, error) {
	var s settings
	err := errors.Join(
		config.Load(&s.App),
		config.Load(&s.Log),
		config.Load(&s.HTTP),
		config.Load(&s.API),
		config.Load(&s.Usage),
		config.Load(&s.Archive),
		config.Load(&s.Redis),
		config.Load(&s.PG),
		config.Load(&s.Mongo),
	)
	if err != nil {
		return s, err
	}
	return s, s.Usage.Validate()
}
