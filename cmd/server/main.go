package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-service/internal/adapter/http"
	"resume-service/internal/config"
	"resume-service/internal/infrastructure/migration"
	"resume-service/internal/usecase"
	"resume-service/pkg/logger"
	"resume-service/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.NewZapLogger("development").Fatal("cannot load config", err)
	}

	log := logger.NewZapLogger(cfg.App.Env)
	defer log.Sync()

	ctx := context.Background()

	deps, err := openDeps(ctx, cfg, log)
	if err != nil {
		log.Fatal("cannot open dependencies", err)
	}
	defer deps.Close()

	if err := migration.RunMigrations(ctx, deps.SQL, log); err != nil {
		log.Fatal("database migrations failed", err)
	}

	source, err := contentSource(cfg, deps)
	if err != nil {
		log.Fatal("cannot configure content source", err)
	}
	store, err := statsStore(cfg, deps)
	if err != nil {
		log.Fatal("cannot configure stats store", err)
	}
	renderer, err := documentRenderer(cfg)
	if err != nil {
		log.Fatal("cannot configure document backend", err)
	}

	rec := metrics.NewRecorder()
	stats := usecase.NewStatsService(store)
	downloads := usecase.NewDownloadService(
		usecase.NewContentStore(source),
		usecase.NewProducer(renderer, cfg.Document.Timeout),
		stats,
		log,
	).WithMetrics(rec)
	if deps.Events != nil {
		downloads.WithEvents(deps.Events)
	}

	h := httpadapter.NewHandler(downloads, stats, log)
	app := httpadapter.NewApp(h, log, rec.Registry)

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.App.Port),
			zap.String("content_source", cfg.Content.Source),
			zap.String("stats_backend", cfg.Stats.Backend),
			zap.String("document_backend", cfg.Document.Backend))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown failed", err)
	}
	// hijacked downloads are not tracked by fiber; let their counts land
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := h.Wait(waitCtx); err != nil {
		log.Warn("downloads still in flight at exit", zap.Error(err))
	}
}
