package repository

import (
	"context"
	"sync"
	"testing"

	"resume-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsStoreConcurrentIncrements(t *testing.T) {
	store := NewMemoryStatsStore()
	ctx := context.Background()
	const n = 800

	var wg sync.WaitGroup
	var readersWG sync.WaitGroup
	stop := make(chan struct{})

	// Readers run alongside the writers and must never see a torn snapshot.
	for i := 0; i < 4; i++ {
		readersWG.Add(1)
		go func() {
			defer readersWG.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s, err := store.Read(ctx)
				if !assert.NoError(t, err) || !assert.True(t, s.Consistent(), "torn read: %+v", s) {
					return
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		v := domain.VariantAIOptimized
		if i%3 == 0 {
			v = domain.VariantTraditional
		}
		go func(v domain.Variant) {
			defer wg.Done()
			assert.NoError(t, store.Increment(ctx, v))
		}(v)
	}
	wg.Wait()
	close(stop)
	readersWG.Wait()

	s, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), s.Total)
	assert.Equal(t, int64(n), s.AIOptimized+s.Traditional)
	assert.Equal(t, int64(267), s.Traditional)
	assert.Equal(t, int64(533), s.AIOptimized)
}

func TestMemoryStatsStoreRejectsUnknownVariant(t *testing.T) {
	store := NewMemoryStatsStore()
	ctx := context.Background()
	require.NoError(t, store.Increment(ctx, domain.VariantTraditional))

	err := store.Increment(ctx, domain.Variant(0))
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)

	s, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DownloadStats{Total: 1, Traditional: 1}, s)
}

func TestMemoryStatsStoreHonoursCancelledContext(t *testing.T) {
	store := NewMemoryStatsStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Increment(ctx, domain.VariantTraditional), context.Canceled)
	s, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Total)
}
