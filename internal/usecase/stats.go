package usecase

import (
	"context"

	"resume-service/internal/domain"
)

// StatsStore owns the download counters. Increment must be atomic with respect
// to concurrent Increment and Read calls, and Read must return a snapshot in
// which Total equals the sum of the variant counters.
type StatsStore interface {
	Increment(ctx context.Context, v domain.Variant) error
	Read(ctx context.Context) (domain.DownloadStats, error)
}

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// Increment adds one download of v. Unknown variants are rejected before the
// store is touched.
func (s *StatsService) Increment(ctx context.Context, v domain.Variant) error {
	if !v.Valid() {
		return domain.NewInvalidVariant(v.String(), "unknown variant")
	}
	return s.store.Increment(ctx, v)
}

// IncrementRaw parses the wire name of a variant and increments it.
func (s *StatsService) IncrementRaw(ctx context.Context, raw string) error {
	v, err := domain.ParseVariant(raw)
	if err != nil {
		return err
	}
	return s.store.Increment(ctx, v)
}

func (s *StatsService) Read(ctx context.Context) (domain.DownloadStats, error) {
	return s.store.Read(ctx)
}
