package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type LikeRepository interface {
	Create(ctx context.Context, activityID, userID int64) error
	Delete(ctx context.Context, activityID, userID int64) error
	Count(ctx context.Context, activityID int64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, activityID, userID int64) error {
	l := &model.ActivityLike{ActivityID: activityID, UserID: userID}
	// 幂等：重复点赞不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, activityID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&model.ActivityLike{}).Error
}

func (r *likeRepository) Count(ctx context.Context, activityID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ActivityLike{}).Where("activity_id = ?", activityID).Count(&n).Error
	return n, err
}
