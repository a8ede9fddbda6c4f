package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

type DiscoverRepository interface {
	TopRated(ctx context.Context, t model.ContentType, minVotes, limit int) ([]model.DiscoverEntry, error)
	MostPopular(ctx context.Context, t model.ContentType, limit int) ([]model.DiscoverEntry, error)
}

type discoverRepository struct {
	db *gorm.DB
}

func NewDiscoverRepository(db *gorm.DB) DiscoverRepository { return &discoverRepository{db: db} }

func (r *discoverRepository) TopRated(ctx context.Context, t model.ContentType, minVotes, limit int) ([]model.DiscoverEntry, error) {
	res := []model.DiscoverEntry{}
	err := r.db.WithContext(ctx).
		Table("ratings r").
		Select("r.content_id, r.type, c.title, c.image_url, AVG(r.score) AS average_score, COUNT(*) AS vote_count").
		Joins("LEFT JOIN contents c ON c.id = r.content_id AND c.type = r.type").
		Where("r.type = ?", t).
		Group("r.content_id, r.type, c.title, c.image_url").
		Having("COUNT(*) >= ?", minVotes).
		Order("average_score DESC, vote_count DESC, r.content_id").
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *discoverRepository) MostPopular(ctx context.Context, t model.ContentType, limit int) ([]model.DiscoverEntry, error) {
	res := []model.DiscoverEntry{}
	err := r.db.WithContext(ctx).
		Table("user_contents uc").
		Select("uc.content_id, uc.type, c.title, c.image_url, COUNT(*) AS count").
		Joins("LEFT JOIN contents c ON c.id = uc.content_id AND c.type = uc.type").
		Where("uc.type = ?", t).
		Group("uc.content_id, uc.type, c.title, c.image_url").
		Order("count DESC, uc.content_id").
		Limit(limit).
		Scan(&res).Error
	return res, err
}
