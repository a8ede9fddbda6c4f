package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

type RateInput struct {
	ContentID string            `json:"contentId" binding:"required"`
	Type      model.ContentType `json:"type" binding:"required,content_type"`
	Score     int               `json:"score" binding:"required"`
	Title     string            `json:"title"`
	ImageURL  *string           `json:"imageUrl"`
}

func (in RateInput) ref() model.ContentRef { return model.ContentRef{ID: in.ContentID, Type: in.Type} }

// RatingService 评分：评分动态 + 物化投影同事务写入
type RatingService interface {
	Rate(ctx context.Context, userID int64, in RateInput) (*model.Rating, error)
	ContentSummary(ctx context.Context, ref model.ContentRef) (model.RatingSummary, error)
	UserRatings(ctx context.Context, userID int64, t model.ContentType, page, pageSize int) (*model.Page[model.Rating], error)
	// MyRating returns nil when the user has not rated ref.
	MyRating(ctx context.Context, userID int64, ref model.ContentRef) (*model.Rating, error)
}

type ratingService struct {
	tx       repository.TxManager
	ratings  repository.RatingRepository
	activity ActivityService
	content  ContentService
	paging   Paging
}

func NewRatingService(tx repository.TxManager, ratings repository.RatingRepository, activity ActivityService,
	content ContentService, paging Paging) RatingService {
	return &ratingService{tx: tx, ratings: ratings, activity: activity, content: content, paging: paging}
}

func (s *ratingService) Rate(ctx context.Context, userID int64, in RateInput) (*model.Rating, error) {
	ref := in.ref()
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if in.Score < model.MinScore || in.Score > model.MaxScore {
		return nil, ErrInvalidScore
	}

	c, known := s.content.Ensure(ctx, ref, Hint{Title: in.Title, ImageURL: in.ImageURL})
	title, img := describe(c, known, Hint{Title: in.Title, ImageURL: in.ImageURL})
	score := in.Score
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		_, err := s.activity.Record(ctx, tx, Entry{
			UserID: userID, Action: model.ActionRating, Ref: ref,
			Title: title, ImageURL: img, Score: &score,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.ratings.Get(ctx, userID, ref)
}

func (s *ratingService) ContentSummary(ctx context.Context, ref model.ContentRef) (model.RatingSummary, error) {
	if err := validateRef(ref); err != nil {
		return model.RatingSummary{}, err
	}
	return s.ratings.Summary(ctx, ref)
}

func (s *ratingService) UserRatings(ctx context.Context, userID int64, t model.ContentType, page, pageSize int) (*model.Page[model.Rating], error) {
	if t != "" && !t.Valid() {
		return nil, ErrInvalidContentType
	}
	page, pageSize = s.paging.Clamp(page, pageSize)
	items, total, err := s.ratings.ListByUser(ctx, userID, t, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Rating]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *ratingService) MyRating(ctx context.Context, userID int64, ref model.ContentRef) (*model.Rating, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	r, err := s.ratings.Get(ctx, userID, ref)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	return r, err
}
