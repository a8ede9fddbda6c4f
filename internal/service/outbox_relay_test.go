package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/events"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

func TestOutboxRelay_PublishesPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	for i := 0; i < 3; i++ {
		_, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "42", Type: model.ContentMovie})
		require.NoError(t, err)
	}

	pub := &recordingPublisher{}
	relay := NewOutboxRelay(e.outbox, pub, RelayOptions{ClaimLimit: 2})
	n, err := relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{events.TopicActivityCreated, events.TopicActivityCreated, events.TopicActivityCreated}, pub.topics)
	done, err := e.outbox.CountByStatus(ctx, model.OutboxDone)
	require.NoError(t, err)
	assert.Equal(t, int64(3), done)
}

func TestOutboxRelay_RetriesThenFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	_, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "42", Type: model.ContentMovie})
	require.NoError(t, err)

	pub := &recordingPublisher{err: errors.New("broker down")}
	relay := NewOutboxRelay(e.outbox, pub, RelayOptions{MaxAttempts: 2})

	_, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	pending, err := e.outbox.CountByStatus(ctx, model.OutboxPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	_, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	failed, err := e.outbox.CountByStatus(ctx, model.OutboxFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

// flakyOutbox 对指定行的 MarkDone 返回错误
type flakyOutbox struct {
	repository.OutboxRepository
	failID int64
}

func (o *flakyOutbox) MarkDone(ctx context.Context, id int64) error {
	if id == o.failID {
		return errors.New("connection reset")
	}
	return o.OutboxRepository.MarkDone(ctx, id)
}

func TestOutboxRelay_ReclaimsAbandonedRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	_, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "42", Type: model.ContentMovie})
	require.NoError(t, err)

	// 另一个 relay 认领后崩溃
	claimed, err := e.outbox.Claim(ctx, 10, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	pub := &recordingPublisher{}
	relay := NewOutboxRelay(e.outbox, pub, RelayOptions{Lease: time.Minute})
	n, err := relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "lease still held")

	relay.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	n, err = relay.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	done, err := e.outbox.CountByStatus(ctx, model.OutboxDone)
	require.NoError(t, err)
	assert.Equal(t, int64(1), done)
	processing, err := e.outbox.CountByStatus(ctx, model.OutboxProcessing)
	require.NoError(t, err)
	assert.Equal(t, int64(0), processing)
}

func TestOutboxRelay_MarkFailureDoesNotStrandBatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	for i := 0; i < 3; i++ {
		_, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "42", Type: model.ContentMovie})
		require.NoError(t, err)
	}

	var first model.Outbox
	require.NoError(t, e.db.Order("id").First(&first).Error)

	pub := &recordingPublisher{}
	relay := NewOutboxRelay(&flakyOutbox{OutboxRepository: e.outbox, failID: first.ID}, pub, RelayOptions{})
	n, err := relay.ProcessOnce(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, pub.published())

	done, err := e.outbox.CountByStatus(ctx, model.OutboxDone)
	require.NoError(t, err)
	assert.Equal(t, int64(2), done)
	processing, err := e.outbox.CountByStatus(ctx, model.OutboxProcessing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), processing)
}

func TestOutboxRelay_StartStop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	_, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "42", Type: model.ContentMovie})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	relay := NewOutboxRelay(e.outbox, pub, RelayOptions{Workers: 1, PollInterval: 10 * time.Millisecond})
	stop := relay.Start()
	assert.Eventually(t, func() bool { return pub.published() == 1 }, 2*time.Second, 10*time.Millisecond)

	sctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, stop(sctx))

	select {
	case d := <-relay.Metrics():
		assert.Greater(t, d, time.Duration(0))
	default:
		t.Fatal("expected a latency sample")
	}
}
