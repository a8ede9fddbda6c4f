package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type UserContentRepository interface {
	WithTx(tx *gorm.DB) UserContentRepository
	// Upsert sets the status of (user, content, type), creating the entry if needed.
	Upsert(ctx context.Context, uc *model.UserContent) error
	Get(ctx context.Context, userID int64, ref model.ContentRef) (*model.UserContent, error)
	List(ctx context.Context, userID int64, status model.LibraryStatus) ([]model.UserContent, error)
	DeleteOwned(ctx context.Context, id, userID int64) (bool, error)
}

type userContentRepository struct {
	db *gorm.DB
}

func NewUserContentRepository(db *gorm.DB) UserContentRepository {
	return &userContentRepository{db: db}
}

func (r *userContentRepository) WithTx(tx *gorm.DB) UserContentRepository {
	return &userContentRepository{db: tx}
}

func (r *userContentRepository) Upsert(ctx context.Context, uc *model.UserContent) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "title", "image_url", "updated_at"}),
	}).Create(uc).Error; err != nil {
		return err
	}
	// the conflict path does not return the existing id on every dialect
	got, err := r.Get(ctx, uc.UserID, model.ContentRef{ID: uc.ContentID, Type: uc.Type})
	if err != nil {
		return err
	}
	*uc = *got
	return nil
}

func (r *userContentRepository) Get(ctx context.Context, userID int64, ref model.ContentRef) (*model.UserContent, error) {
	var uc model.UserContent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, ref.ID, ref.Type).
		Take(&uc).Error
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *userContentRepository) List(ctx context.Context, userID int64, status model.LibraryStatus) ([]model.UserContent, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	res := []model.UserContent{}
	err := q.Order("saved_at DESC, id DESC").Find(&res).Error
	return res, err
}

func (r *userContentRepository) DeleteOwned(ctx context.Context, id, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.UserContent{})
	return res.RowsAffected > 0, res.Error
}
