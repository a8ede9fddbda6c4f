package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

// MaxReviewLen is the longest accepted review, in runes.
const MaxReviewLen = 5000

type ReviewInput struct {
	ContentID string            `json:"contentId" binding:"required"`
	Type      model.ContentType `json:"type" binding:"required,content_type"`
	Text      string            `json:"text" binding:"required"`
	Title     string            `json:"title"`
	ImageURL  *string           `json:"imageUrl"`
}

type ReviewService interface {
	ListForContent(ctx context.Context, ref model.ContentRef, page, pageSize int) (*model.Page[model.ReviewView], error)
	Add(ctx context.Context, userID int64, in ReviewInput) (*model.Review, error)
	// Update and Delete report ErrReviewNotFound for reviews the user does not own.
	Update(ctx context.Context, userID, reviewID int64, text string) (*model.Review, error)
	Delete(ctx context.Context, userID, reviewID int64) error
}

type reviewService struct {
	tx         repository.TxManager
	reviews    repository.ReviewRepository
	activities repository.ActivityRepository
	activity   ActivityService
	content    ContentService
	paging     Paging
}

func NewReviewService(tx repository.TxManager, reviews repository.ReviewRepository, activities repository.ActivityRepository,
	activity ActivityService, content ContentService, paging Paging) ReviewService {
	return &reviewService{tx: tx, reviews: reviews, activities: activities, activity: activity, content: content, paging: paging}
}

func validReviewText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > MaxReviewLen {
		return "", ErrReviewText
	}
	return text, nil
}

func (s *reviewService) ListForContent(ctx context.Context, ref model.ContentRef, page, pageSize int) (*model.Page[model.ReviewView], error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	page, pageSize = s.paging.Clamp(page, pageSize)
	items, total, err := s.reviews.ListForContent(ctx, ref, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.ReviewView]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *reviewService) Add(ctx context.Context, userID int64, in ReviewInput) (*model.Review, error) {
	ref := model.ContentRef{ID: in.ContentID, Type: in.Type}
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	text, err := validReviewText(in.Text)
	if err != nil {
		return nil, err
	}

	hint := Hint{Title: in.Title, ImageURL: in.ImageURL}
	c, known := s.content.Ensure(ctx, ref, hint)
	title, img := describe(c, known, hint)

	rv := &model.Review{UserID: userID, ContentID: ref.ID, Type: ref.Type, Text: text}
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.reviews.WithTx(tx).Create(ctx, rv); err != nil {
			return err
		}
		_, err := s.activity.Record(ctx, tx, Entry{
			UserID: userID, Action: model.ActionReview, Ref: ref,
			Title: title, ImageURL: img, Text: text, ReviewID: &rv.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID int64, text string) (*model.Review, error) {
	text, err := validReviewText(text)
	if err != nil {
		return nil, err
	}
	rv, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.reviews.WithTx(tx).UpdateText(ctx, rv, text); err != nil {
			return err
		}
		return s.activities.WithTx(tx).UpdateSnippetByReview(ctx, rv.ID, Snippet(text))
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	rv, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.activities.WithTx(tx).DeleteByReview(ctx, rv.ID); err != nil {
			return err
		}
		return s.reviews.WithTx(tx).Delete(ctx, rv.ID)
	})
}

func (s *reviewService) owned(ctx context.Context, userID, reviewID int64) (*model.Review, error) {
	rv, err := s.reviews.GetOwned(ctx, reviewID, userID)
	if repository.IsNotFound(err) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}
