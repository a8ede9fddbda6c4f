package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(ctx context.Context, rv *model.Review) error
	// GetOwned returns gorm.ErrRecordNotFound for missing or foreign reviews.
	GetOwned(ctx context.Context, id, userID int64) (*model.Review, error)
	UpdateText(ctx context.Context, rv *model.Review, text string) error
	Delete(ctx context.Context, id int64) error
	ListForContent(ctx context.Context, ref model.ContentRef, page, pageSize int) ([]model.ReviewView, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository { return &reviewRepository{db: tx} }

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) GetOwned(ctx context.Context, id, userID int64) (*model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) UpdateText(ctx context.Context, rv *model.Review, text string) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).Model(rv).Updates(map[string]any{"text": text, "updated_at": now}).Error; err != nil {
		return err
	}
	rv.Text = text
	rv.UpdatedAt = &now
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

type reviewRow struct {
	model.Review
	Username  string
	AvatarURL *string
}

func (r *reviewRepository) ListForContent(ctx context.Context, ref model.ContentRef, page, pageSize int) ([]model.ReviewView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("content_id = ? AND type = ?", ref.ID, ref.Type).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	res := []model.ReviewView{}
	if total == 0 {
		return res, 0, nil
	}
	offset, limit := offsetLimit(page, pageSize)
	var rows []reviewRow
	err := r.db.WithContext(ctx).
		Table("reviews r").
		Select("r.*, u.username, u.avatar_url").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.content_id = ? AND r.type = ?", ref.ID, ref.Type).
		Order("r.created_at DESC, r.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for _, row := range rows {
		res = append(res, model.ReviewView{
			Review: row.Review,
			Author: model.Author{ID: row.UserID, Username: row.Username, AvatarURL: row.AvatarURL},
		})
	}
	return res, total, nil
}
