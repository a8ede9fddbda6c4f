package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/testutil"
)

type countingCounter struct {
	prometheus.Counter
	n int
}

func (c *countingCounter) Inc() { c.n++ }

func TestSearchCache_ReadThrough(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	c := NewSearchCache(rdb, time.Minute)
	hits, misses := &countingCounter{}, &countingCounter{}
	c.Instrument(hits, misses)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]provider.Metadata, error) {
		calls++
		return []provider.Metadata{{ID: "603", Type: model.ContentMovie, Title: "The Matrix"}}, nil
	}

	first, err := c.GetOrLoad(ctx, model.ContentMovie, "Matrix", load)
	require.NoError(t, err)
	second, err := c.GetOrLoad(ctx, model.ContentMovie, " matrix ", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits.n)
	assert.Equal(t, 1, misses.n)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetOrLoad(ctx, model.ContentMovie, "matrix", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSearchCache_LoadErrorIsNotCached(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	c := NewSearchCache(rdb, time.Minute)

	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), model.ContentBook, "x", func(context.Context) ([]provider.Metadata, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	res, err := c.GetOrLoad(context.Background(), model.ContentBook, "x", func(context.Context) ([]provider.Metadata, error) {
		return []provider.Metadata{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearchCache_RedisDownDegradesToLoad(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	mr.Close()
	c := NewSearchCache(rdb, time.Minute)

	res, err := c.GetOrLoad(context.Background(), model.ContentMovie, "q", func(context.Context) ([]provider.Metadata, error) {
		return []provider.Metadata{{ID: "1"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestTokenStore_SingleUse(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	s := NewTokenStore(rdb, time.Minute)
	ctx := context.Background()

	tok, err := s.Issue(ctx, 42)
	require.NoError(t, err)

	id, err := s.Consume(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = s.Consume(ctx, tok)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	tok2, err := s.Issue(ctx, 7)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = s.Consume(ctx, tok2)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
