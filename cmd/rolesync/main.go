package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/prissleague/internal/app"
	"github.com/riskibarqy/prissleague/internal/config"
	"github.com/riskibarqy/prissleague/internal/observability"
	"github.com/riskibarqy/prissleague/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).Named("rolesync-bot")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateRoleSync(); err != nil {
		logger.Error("invalid role sync configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiler, err := observability.InitPyroscope(cfg, "rolesync", logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// ratings are read uncached
	cfg.CacheEnabled = false
	bot, err := app.NewRoleSync(ctx, cfg, app.NewRepositories(cfg, db).Players, logger)
	if err != nil {
		logger.Error("build role sync", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := bot.Close(); err != nil {
			logger.Error("close role sync", "error", err)
		}
	}()

	bot.Scheduler.Start(ctx)
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bot.Scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("stop scheduler", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	logger.Info("role sync stopped")
}
