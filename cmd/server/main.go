package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/mo-tomi/nowtask8/api/handler"
	"github.com/mo-tomi/nowtask8/internal/config"
	"github.com/mo-tomi/nowtask8/internal/infrastructure/monitor"
	"github.com/mo-tomi/nowtask8/internal/middleware"
	"github.com/mo-tomi/nowtask8/internal/router"
	"github.com/mo-tomi/nowtask8/internal/services"
	"github.com/mo-tomi/nowtask8/internal/services/lifecycle"
	"github.com/mo-tomi/nowtask8/pkg/httpcontext"
	"github.com/mo-tomi/nowtask8/pkg/logger"
	"github.com/mo-tomi/nowtask8/pkg/timeutil"
	boltRepo "github.com/mo-tomi/nowtask8/repository/bolt"
	"github.com/mo-tomi/nowtask8/repository/memory"
	"github.com/mo-tomi/nowtask8/usecase/duration"
	"github.com/mo-tomi/nowtask8/usecase/planner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	zone, err := cfg.Zone()
	if err != nil {
		zapLogger.Fatal("timezone", zap.Error(err))
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.NotifyContext(context.Background())
	defer stop()

	snapshots, err := openStorage(appCtx, cfg, zapLogger, manager)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	opts := []planner.Option{}
	if cfg.RecursiveRollup() {
		opts = append(opts, planner.WithRollup(duration.Recursive))
	}
	clock := timeutil.RealClock{}
	plannerUC := planner.New(memory.NewTaskStore(zone), snapshots, zone, clock, zapLogger.Named("planner"), opts...)
	if err := plannerUC.Load(appCtx); err != nil {
		zapLogger.Fatal("snapshot load failed", zap.Error(err))
	}

	if cfg.Scheduler.SeedDefaults {
		seed, err := planner.LoadDefaultSeed()
		if err != nil {
			zapLogger.Fatal("seed defaults", zap.Error(err))
		}
		if _, err := plannerUC.SeedDefaults(appCtx, seed); err != nil {
			zapLogger.Fatal("seed defaults", zap.Error(err))
		}
	}

	scheduler, err := services.NewScheduler(plannerUC, zone, clock, zapLogger.Named("scheduler"), services.SchedulerConfig{
		Spec:       cfg.Scheduler.GenerateSpec,
		RunOnStart: cfg.Scheduler.GenerateOnStart,
	})
	if err != nil {
		zapLogger.Fatal("scheduler", zap.Error(err))
	}
	scheduler.Start(appCtx)
	manager.Register("scheduler", scheduler.Stop)

	mon := monitor.New(cfg.Storage.Driver, snapshots, cfg.Monitor.Interval, zapLogger.Named("monitor"))
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	var healthOpts []apiHandler.HealthOption
	if store, ok := snapshots.(*boltRepo.SnapshotRepository); ok {
		healthOpts = append(healthOpts, apiHandler.WithStorageDetails(func() any { return store.Stats() }))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout, httpcontext.WithBase(appCtx))

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(plannerUC, ctxAdapter, zapLogger),
		Day:      apiHandler.NewDayHandler(plannerUC, ctxAdapter, zapLogger),
		Routine:  apiHandler.NewRoutineHandler(plannerUC, ctxAdapter, zapLogger),
		Shift:    apiHandler.NewShiftHandler(plannerUC, ctxAdapter, zapLogger),
		Template: apiHandler.NewTemplateHandler(plannerUC, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, plannerUC.Today, ctxAdapter, zapLogger, healthOpts...),
	}
	if cfg.JWT.Secret == "" {
		zapLogger.Warn("JWT_SECRET is empty, API authentication disabled")
	}
	r := router.New(handlers, middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("timezone", zone.Location().String()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server crashed", zap.Error(err))
			stop()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
