package main

import (
	"context"
	"database/sql"
	"fmt"

	"resume-service/internal/adapter/event"
	"resume-service/internal/adapter/repository"
	"resume-service/internal/config"
	"resume-service/internal/usecase"
	"resume-service/pkg/infrastructure"
	"resume-service/pkg/logger"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps holds the external connections the configured backends need. Only
// what the configuration asks for is opened.
type deps struct {
	Pool   *pgxpool.Pool
	SQL    *sql.DB
	Redis  *redis.Client
	Events *event.KafkaPublisher
}

func needsPostgres(cfg config.Config) bool {
	return cfg.Content.Source == "postgres" || cfg.Stats.Backend == "postgres"
}

func openDeps(ctx context.Context, cfg config.Config, log logger.Logger) (*deps, error) {
	d := &deps{}
	if needsPostgres(cfg) {
		pool, err := infrastructure.NewPool(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		d.Pool = pool
		d.SQL = infrastructure.OpenSQL(pool)
	}
	if cfg.Stats.Backend == "redis" {
		client, err := infrastructure.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		d.Redis = client
	}
	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		d.Events = pub
	}
	return d, nil
}

func (d *deps) Close() {
	if d.Events != nil {
		_ = d.Events.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

func contentSource(cfg config.Config, d *deps) (usecase.ContentSource, error) {
	switch cfg.Content.Source {
	case "file":
		return repository.NewFileContentSource(cfg.Content.File), nil
	case "postgres":
		return repository.NewPGContentSource(d.SQL), nil
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}
}

func statsStore(cfg config.Config, d *deps) (usecase.StatsStore, error) {
	switch cfg.Stats.Backend {
	case "memory":
		return repository.NewMemoryStatsStore(), nil
	case "postgres":
		return repository.NewPGStatsStore(d.SQL), nil
	case "redis":
		return repository.NewRedisStatsStore(d.Redis, ""), nil
	default:
		return nil, fmt.Errorf("unknown stats backend %q", cfg.Stats.Backend)
	}
}

func documentRenderer(cfg config.Config) (usecase.Renderer, error) {
	switch cfg.Document.Backend {
	case "chromedp":
		return infrastructure.NewChromedpRenderer(cfg.Document.ChromePath), nil
	case "fpdf":
		return infrastructure.NewFpdfRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown document backend %q", cfg.Document.Backend)
	}
}
