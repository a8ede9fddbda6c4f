// Package events defines the domain events relayed from the outbox and the
// publishers that deliver them.
package events

import (
	"context"
	"time"

	"github.com/d60-Lab/shelf/internal/model"
)

// TopicActivityCreated is written to outbox.topic for every new activity.
const TopicActivityCreated = "activity.created"

// ActivityCreated is the outbox payload of TopicActivityCreated.
type ActivityCreated struct {
	ActivityID  int64             `json:"activityId"`
	UserID      int64             `json:"userId"`
	ActionType  model.ActionType  `json:"actionType"`
	ContentID   string            `json:"contentId"`
	ContentType model.ContentType `json:"contentType"`
	Score       *int              `json:"score,omitempty"`
	Status      *string           `json:"status,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewActivityCreated builds the event for a persisted activity.
func NewActivityCreated(a *model.Activity) ActivityCreated {
	return ActivityCreated{
		ActivityID:  a.ID,
		UserID:      a.UserID,
		ActionType:  a.ActionType,
		ContentID:   a.ContentID,
		ContentType: a.ContentType,
		Score:       a.Score,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}

// Publisher delivers one serialized event.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}
