package repository

import (
	"context"
	"sync"

	"resume-service/internal/domain"
)

// MemoryStatsStore keeps the counters in process. One mutex covers all three
// counters, so an increment and a read never interleave.
type MemoryStatsStore struct {
	mu    sync.Mutex
	stats domain.DownloadStats
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{}
}

func (s *MemoryStatsStore) Increment(ctx context.Context, v domain.Variant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v {
	case domain.VariantAIOptimized:
		s.stats.AIOptimized++
	case domain.VariantTraditional:
		s.stats.Traditional++
	default:
		return domain.NewInvalidVariant(v.String(), "unknown variant")
	}
	s.stats.Total++
	return nil
}

func (s *MemoryStatsStore) Read(ctx context.Context) (domain.DownloadStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.DownloadStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}
