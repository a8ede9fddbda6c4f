package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/internal/events"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/pkg/logger"
)

type RelayOptions struct {
	Workers      int
	ClaimLimit   int
	PollInterval time.Duration
	MaxAttempts  int
	// Lease 认领后超过该时长仍未完成的行会被重新认领
	Lease        time.Duration
}

// OutboxRelay 轮询 outbox，把事件投递给 EventPublisher
type OutboxRelay struct {
	outbox    repository.OutboxRepository
	publisher events.Publisher
	opts      RelayOptions
	metricsCh chan time.Duration // outbox -> published latency
	now       func() time.Time
}

func NewOutboxRelay(outbox repository.OutboxRepository, publisher events.Publisher, opts RelayOptions) *OutboxRelay {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.ClaimLimit <= 0 {
		opts.ClaimLimit = 128
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Lease <= 0 {
		opts.Lease = time.Minute
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		opts:      opts,
		metricsCh: make(chan time.Duration, 4096),
		now:       time.Now,
	}
}

func (w *OutboxRelay) Metrics() <-chan time.Duration { return w.metricsCh }

// Start 启动若干 worker 轮询处理 outbox；返回停止函数，等待在途批次结束。
func (w *OutboxRelay) Start() func(context.Context) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < w.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(stop)
		}()
	}
	return func(ctx context.Context) error {
		close(stop)
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *OutboxRelay) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(context.Background()); err != nil {
				logger.Warn("outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claims one batch and publishes it. It returns how many rows were published.
// A failed status update does not stop the batch; the row stays claimed until its lease expires.
func (w *OutboxRelay) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := w.outbox.Claim(ctx, w.opts.ClaimLimit, w.now().Add(-w.opts.Lease))
	if err != nil {
		return 0, err
	}
	published := 0
	var result *multierror.Error
	for _, ob := range batch {
		if err := w.publisher.Publish(ctx, ob.Topic, ob.Payload); err != nil {
			attempts := ob.Attempts + 1
			logger.Warn("publish outbox event failed",
				zap.Error(err),
				zap.Int64("outbox_id", ob.ID),
				zap.String("topic", ob.Topic),
				zap.Int("attempts", attempts),
			)
			if rerr := w.outbox.MarkRetry(ctx, ob.ID, attempts, w.opts.MaxAttempts); rerr != nil {
				result = multierror.Append(result, fmt.Errorf("mark retry %d: %w", ob.ID, rerr))
			}
			continue
		}
		published++
		if err := w.outbox.MarkDone(ctx, ob.ID); err != nil {
			result = multierror.Append(result, fmt.Errorf("mark done %d: %w", ob.ID, err))
			continue
		}
		if !ob.CreatedAt.IsZero() {
			select {
			case w.metricsCh <- time.Since(ob.CreatedAt):
			default:
			}
		}
	}
	return published, result.ErrorOrNil()
}
