package repository

import (
	"context"
	"database/sql"
	"errors"

	"resume-service/internal/domain"
)

// One statement per variant: the row lock taken by the upsert serialises
// concurrent increments, and total moves together with the variant column.
const (
	incrementAIOptimizedSQL = `
INSERT INTO download_stats (id, total, ai_optimized, traditional) VALUES (1, 1, 1, 0)
ON CONFLICT (id) DO UPDATE SET total = download_stats.total + 1, ai_optimized = download_stats.ai_optimized + 1`
	incrementTraditionalSQL = `
INSERT INTO download_stats (id, total, ai_optimized, traditional) VALUES (1, 1, 0, 1)
ON CONFLICT (id) DO UPDATE SET total = download_stats.total + 1, traditional = download_stats.traditional + 1`
	readStatsSQL = `SELECT total, ai_optimized, traditional FROM download_stats WHERE id = 1`
)

// PGStatsStore keeps the counters in a single Postgres row.
type PGStatsStore struct {
	DB *sql.DB
}

func NewPGStatsStore(db *sql.DB) *PGStatsStore {
	return &PGStatsStore{DB: db}
}

func (s *PGStatsStore) Increment(ctx context.Context, v domain.Variant) error {
	var query string
	switch v {
	case domain.VariantAIOptimized:
		query = incrementAIOptimizedSQL
	case domain.VariantTraditional:
		query = incrementTraditionalSQL
	default:
		return domain.NewInvalidVariant(v.String(), "unknown variant")
	}
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func (s *PGStatsStore) Read(ctx context.Context) (domain.DownloadStats, error) {
	var st domain.DownloadStats
	err := s.DB.QueryRowContext(ctx, readStatsSQL).Scan(&st.Total, &st.AIOptimized, &st.Traditional)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DownloadStats{}, nil
	}
	if err != nil {
		return domain.DownloadStats{}, err
	}
	return st, nil
}
