package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type OutboxRepository interface {
	WithTx(tx *gorm.DB) OutboxRepository
	Create(ctx context.Context, o *model.Outbox) error
	// Claim moves up to limit pending rows to processing and returns them.
	// Processing rows claimed before staleBefore are handed out again.
	Claim(ctx context.Context, limit int, staleBefore time.Time) ([]model.Outbox, error)
	MarkDone(ctx context.Context, id int64) error
	// MarkRetry returns the row to pending, or to failed once attempts reaches maxAttempts.
	MarkRetry(ctx context.Context, id int64, attempts, maxAttempts int) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) WithTx(tx *gorm.DB) OutboxRepository { return &outboxRepository{db: tx} }

func (r *outboxRepository) Create(ctx context.Context, o *model.Outbox) error {
	if o.Status == "" {
		o.Status = model.OutboxPending
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *outboxRepository) Claim(ctx context.Context, limit int, staleBefore time.Time) ([]model.Outbox, error) {
	var batch []model.Outbox
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE SKIP LOCKED lets several relays share the table (ignored on sqlite)
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? OR (status = ? AND claimed_at < ?)", model.OutboxPending, model.OutboxProcessing, staleBefore).
			Order("created_at, id").
			Limit(limit).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]int64, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.Outbox{}).Where("id IN ?", ids).
			Updates(map[string]any{"status": model.OutboxProcessing, "claimed_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxDone, "processed_at": now}).Error
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id int64, attempts, maxAttempts int) error {
	status := model.OutboxPending
	if attempts >= maxAttempts {
		status = model.OutboxFailed
	}
	return r.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "attempts": attempts}).Error
}

func (r *outboxRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Outbox{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
