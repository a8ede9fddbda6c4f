package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type RatingRepository interface {
	WithTx(tx *gorm.DB) RatingRepository
	// Upsert overwrites score and rated_at for an existing (user, content, type).
	Upsert(ctx context.Context, r *model.Rating) error
	Get(ctx context.Context, userID int64, ref model.ContentRef) (*model.Rating, error)
	Summary(ctx context.Context, ref model.ContentRef) (model.RatingSummary, error)
	ListByUser(ctx context.Context, userID int64, t model.ContentType, page, pageSize int) ([]model.Rating, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository { return &ratingRepository{db: db} }

func (r *ratingRepository) WithTx(tx *gorm.DB) RatingRepository { return &ratingRepository{db: tx} }

func (r *ratingRepository) Upsert(ctx context.Context, rt *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "rated_at"}),
	}).Create(rt).Error
}

func (r *ratingRepository) Get(ctx context.Context, userID int64, ref model.ContentRef) (*model.Rating, error) {
	var rt model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, ref.ID, ref.Type).
		Take(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *ratingRepository) Summary(ctx context.Context, ref model.ContentRef) (model.RatingSummary, error) {
	var s model.RatingSummary
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("content_id = ? AND type = ?", ref.ID, ref.Type).
		Scan(&s).Error
	return s, err
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID int64, t model.ContentType, page, pageSize int) ([]model.Rating, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Rating{}).Where("user_id = ?", userID)
	if t != "" {
		q = q.Where("type = ?", t)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := offsetLimit(page, pageSize)
	res := []model.Rating{}
	err := q.Order("rated_at DESC, id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}
