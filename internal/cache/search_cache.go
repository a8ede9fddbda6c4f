package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
)

// SearchCache is a read-through cache for upstream search results.
// Redis failures degrade to a miss; they never fail the lookup.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration

	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SearchCache{
		rdb:    rdb,
		ttl:    ttl,
		hits:   prometheus.NewCounter(prometheus.CounterOpts{Name: "search_cache_hits_total"}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{Name: "search_cache_misses_total"}),
	}
}

// Instrument 把命中/未命中计数接到已注册的 collector 上，需在首次查询前调用
func (s *SearchCache) Instrument(hits, misses prometheus.Counter) {
	s.hits, s.misses = hits, misses
}

func searchKey(t model.ContentType, query string) string {
	return fmt.Sprintf("search:%s:%s", t, strings.ToLower(strings.TrimSpace(query)))
}

// GetOrLoad returns cached results or calls load and caches its result.
func (s *SearchCache) GetOrLoad(ctx context.Context, t model.ContentType, query string,
	load func(context.Context) ([]provider.Metadata, error)) ([]provider.Metadata, error) {
	key := searchKey(t, query)
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var out []provider.Metadata
			if uErr := json.Unmarshal(data, &out); uErr == nil {
				s.hits.Inc()
				return out, nil
			}
		}
	}
	s.misses.Inc()

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if payload, err := json.Marshal(rows); err == nil {
			_ = s.rdb.Set(ctx, key, payload, s.ttl).Err()
		}
	}
	return rows, nil
}
