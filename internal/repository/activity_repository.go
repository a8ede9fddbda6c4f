package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

type ActivityRepository interface {
	WithTx(tx *gorm.DB) ActivityRepository
	Create(ctx context.Context, a *model.Activity) error
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateSnippetByReview(ctx context.Context, reviewID int64, snippet string) error
	// DeleteByReview removes the review's activity together with its likes.
	DeleteByReview(ctx context.Context, reviewID int64) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

func (r *activityRepository) WithTx(tx *gorm.DB) ActivityRepository { return &activityRepository{db: tx} }

func (r *activityRepository) Create(ctx context.Context, a *model.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *activityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Activity{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *activityRepository) UpdateSnippetByReview(ctx context.Context, reviewID int64, snippet string) error {
	return r.db.WithContext(ctx).Model(&model.Activity{}).
		Where("review_id = ?", reviewID).
		Update("snippet", snippet).Error
}

func (r *activityRepository) DeleteByReview(ctx context.Context, reviewID int64) error {
	ids := r.db.Model(&model.Activity{}).Select("id").Where("review_id = ?", reviewID)
	if err := r.db.WithContext(ctx).Where("activity_id IN (?)", ids).Delete(&model.ActivityLike{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&model.Activity{}).Error
}
