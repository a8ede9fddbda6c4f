package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type ContentRepository interface {
	Get(ctx context.Context, ref model.ContentRef) (*model.Content, error)
	// Upsert inserts the row or refreshes its metadata; safe under concurrent first references.
	Upsert(ctx context.Context, c *model.Content) error
	// InsertIfAbsent never overwrites an existing row.
	InsertIfAbsent(ctx context.Context, c *model.Content) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) Get(ctx context.Context, ref model.ContentRef) (*model.Content, error) {
	var c model.Content
	if err := r.db.WithContext(ctx).Where("id = ? AND type = ?", ref.ID, ref.Type).Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contentRepository) Upsert(ctx context.Context, c *model.Content) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "year", "image_url", "details", "fetched_at", "updated_at"}),
	}).Create(c).Error
}

func (r *contentRepository) InsertIfAbsent(ctx context.Context, c *model.Content) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c).Error
}
