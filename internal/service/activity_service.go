package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/events"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

// SnippetLen is the number of runes of review text copied into an activity.
const SnippetLen = 200

// Entry is one activity to append.
type Entry struct {
	UserID   int64
	Action   model.ActionType
	Ref      model.ContentRef
	Title    *string
	ImageURL *string
	Score    *int
	Status   *string
	// Text is the full review text; the activity keeps a snippet of it.
	Text     string
	ReviewID *int64
}

// ActivityService 动态日志：只追加；每条动态与其 outbox 事件同事务落地
type ActivityService interface {
	// Record appends the entry inside tx. A rating entry also upserts the
	// rating projection. When tx is nil Record opens its own transaction.
	Record(ctx context.Context, tx *gorm.DB, e Entry) (*model.Activity, error)
}

type activityService struct {
	tx         repository.TxManager
	activities repository.ActivityRepository
	ratings    repository.RatingRepository
	outbox     repository.OutboxRepository
}

func NewActivityService(tx repository.TxManager, activities repository.ActivityRepository,
	ratings repository.RatingRepository, outbox repository.OutboxRepository) ActivityService {
	return &activityService{tx: tx, activities: activities, ratings: ratings, outbox: outbox}
}

func (s *activityService) Record(ctx context.Context, tx *gorm.DB, e Entry) (*model.Activity, error) {
	if err := validateEntry(e); err != nil {
		return nil, err
	}
	if tx == nil {
		var out *model.Activity
		err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
			var err error
			out, err = s.record(ctx, tx, e)
			return err
		})
		return out, err
	}
	return s.record(ctx, tx, e)
}

func (s *activityService) record(ctx context.Context, tx *gorm.DB, e Entry) (*model.Activity, error) {
	now := time.Now()
	a := &model.Activity{
		UserID:      e.UserID,
		ActionType:  e.Action,
		ContentID:   e.Ref.ID,
		ContentType: e.Ref.Type,
		Title:       e.Title,
		ImageURL:    e.ImageURL,
		Score:       e.Score,
		Status:      e.Status,
		ReviewID:    e.ReviewID,
		CreatedAt:   now,
	}
	if e.Action == model.ActionReview {
		snippet := Snippet(e.Text)
		a.Snippet = &snippet
	}
	if err := s.activities.WithTx(tx).Create(ctx, a); err != nil {
		return nil, err
	}

	if e.Action == model.ActionRating {
		r := &model.Rating{UserID: e.UserID, ContentID: e.Ref.ID, Type: e.Ref.Type, Score: *e.Score, RatedAt: now}
		if err := s.ratings.WithTx(tx).Upsert(ctx, r); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(events.NewActivityCreated(a))
	if err != nil {
		return nil, err
	}
	ob := &model.Outbox{
		Topic:       events.TopicActivityCreated,
		AggregateID: a.ID,
		Payload:     payload,
		Status:      model.OutboxPending,
		CreatedAt:   now,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, ob); err != nil {
		return nil, err
	}
	return a, nil
}

func validateEntry(e Entry) error {
	if err := validateRef(e.Ref); err != nil {
		return err
	}
	if !e.Action.Valid() {
		return ErrInvalidAction
	}
	switch e.Action {
	case model.ActionRating:
		if e.Score == nil || *e.Score < model.MinScore || *e.Score > model.MaxScore {
			return ErrInvalidScore
		}
	case model.ActionReview:
		if strings.TrimSpace(e.Text) == "" {
			return ErrReviewText
		}
	case model.ActionStatus:
		if e.Status == nil || !model.LibraryStatus(*e.Status).ValidFor(e.Ref.Type) {
			return ErrInvalidStatus
		}
	}
	return nil
}

// Snippet keeps the first SnippetLen runes of text, marking truncation with "…".
func Snippet(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= SnippetLen {
		return text
	}
	return string([]rune(text)[:SnippetLen]) + "…"
}
