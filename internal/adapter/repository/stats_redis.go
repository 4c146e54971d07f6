package repository

import (
	"context"
	"fmt"
	"strconv"

	"resume-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "resume:downloads:"

// RedisStatsStore keeps one integer key per counter. Increments run in a
// MULTI/EXEC block and reads use a single MGET, so both are atomic.
type RedisStatsStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStatsStore(client redis.Cmdable, prefix string) *RedisStatsStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStatsStore{client: client, prefix: prefix}
}

func (s *RedisStatsStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStatsStore) Increment(ctx context.Context, v domain.Variant) error {
	if !v.Valid() {
		return domain.NewInvalidVariant(v.String(), "unknown variant")
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, s.key("total"))
		p.Incr(ctx, s.key(v.String()))
		return nil
	})
	return err
}

func (s *RedisStatsStore) Read(ctx context.Context) (domain.DownloadStats, error) {
	vals, err := s.client.MGet(ctx,
		s.key("total"),
		s.key(domain.VariantAIOptimized.String()),
		s.key(domain.VariantTraditional.String()),
	).Result()
	if err != nil {
		return domain.DownloadStats{}, err
	}
	counts := make([]int64, len(vals))
	for i, raw := range vals {
		if counts[i], err = parseCount(raw); err != nil {
			return domain.DownloadStats{}, err
		}
	}
	return domain.DownloadStats{Total: counts[0], AIOptimized: counts[1], Traditional: counts[2]}, nil
}

func parseCount(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected counter value %T", raw)
	}
}
