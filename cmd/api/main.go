package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/config"
	"github.com/GoSim-25-26J-441/todo-service/internal/bootstrap"
	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/cronjob"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/repository"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run owns every resource, so its defers close them on both signal and failure.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: cfg.Database})
	if err != nil {
		return fmt.Errorf("database %s unavailable: %w", cfg.Database.Driver, err)
	}
	defer db.Close()

	pub, closeEvents, err := bootstrap.OpenEvents(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis %s unavailable: %w", cfg.Redis.Addr, err)
	}
	defer closeEvents()

	collector := metrics.NewCollector("todo")

	stats := cronjob.NewScheduler(repository.NewTodoRepository(db.DB), collector, logger)
	if err := stats.Start(cfg.App.StatsSchedule); err != nil {
		return fmt.Errorf("cron scheduler: %w", err)
	}
	defer stats.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             db.DB,
		Events:         pub,
		Metrics:        collector,
		Log:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("events", cfg.Redis.Addr != ""),
	)
	return bootstrap.Serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}
