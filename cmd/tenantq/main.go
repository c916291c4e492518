// Command tenantq serves per-tenant usage accounting over HTTP. Every
// mutation of a tenant's record runs through a keyed queue, so requests for
// one tenant apply in arrival order while different tenants proceed in
// parallel.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tenantq/internal/api"
	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/s3archive"
	"github.com/dmitrymomot/tenantq/pkg/httpserver"
	"github.com/dmitrymomot/tenantq/pkg/keyqueue"
	"github.com/dmitrymomot/tenantq/pkg/logger"
	"github.com/dmitrymomot/tenantq/pkg/requestid"
	"github.com/dmitrymomot/tenantq/pkg/scheduler"
	"github.com/dmitrymomot/tenantq/pkg/tenant"
)

const serviceName = "tenantq"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("tenantq stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Log, serviceName,
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	loc, err := time.LoadLocation(cfg.App.SchedulerTimezone)
	if err != nil {
		return err
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to close storage", logger.Error(err))
		}
	}()

	opts := []usage.Option{
		usage.WithDefaultLimit(cfg.Usage.DefaultLimit),
		usage.WithLogger(log.With(logger.Component("usage"))),
	}
	if cfg.Archive.Enabled() {
		archiver, err := s3archive.New(ctx, cfg.Archive, s3archive.WithLogger(log.With(logger.Component("archive"))))
		if err != nil {
			return err
		}
		opts = append(opts, usage.WithArchiver(archiver))
	}

	queueLog := log.With(logger.Component("keyqueue"))
	queue := keyqueue.New[string](
		keyqueue.WithLogger(queueLog),
		keyqueue.WithWorkerHooks(
			func(key any) { queueLog.Debug("tenant worker started", logger.Key(key)) },
			func(key any) { queueLog.Debug("tenant worker drained", logger.Key(key)) },
		),
	)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := queue.Shutdown(shutdownCtx); err != nil {
			log.Error("queue did not drain", logger.Error(err), slog.Int("pending", queue.Len()))
		}
	}()

	svc := usage.NewService(st.store, queue, opts...)

	if cfg.Usage.LimitsFile != "" {
		limits, err := usage.LoadLimitsFile(cfg.Usage.LimitsFile)
		if err != nil {
			return err
		}
		if err := svc.ApplyLimits(ctx, limits); err != nil {
			return err
		}
		log.Info("tenant limits applied", slog.Int("tenants", len(limits.Tenants)))
	}

	sched := scheduler.New(
		scheduler.WithLocation(loc),
		scheduler.WithLogger(log.With(logger.Component("scheduler"))),
	)
	err = sched.AddJob("usage-reset", scheduler.MonthlyOn(cfg.Usage.ResetDay, cfg.Usage.ResetHour, 0), func(ctx context.Context) error {
		n, err := svc.ResetPeriod(ctx)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "usage period closed", slog.Int("tenants", n))
		return nil
	})
	if err != nil {
		return err
	}

	router := api.NewRouter(cfg.API, api.Deps{
		Usage:  svc,
		Checks: []httpserver.Check{st.check},
		Logger: log.With(logger.Component("api")),
	})
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, router) })
	g.Go(sched.Run(gctx))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
