package model

import "time"

type ActionType string

const (
	ActionRating   ActionType = "rating"
	ActionReview   ActionType = "review"
	ActionStatus   ActionType = "status"
	ActionFavorite ActionType = "favorite"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionRating, ActionReview, ActionStatus, ActionFavorite:
		return true
	}
	return false
}

// Activity 用户动态（追加写，内容标题/封面冗余以避免读时 join）
type Activity struct {
	ID          int64       `json:"id" gorm:"primaryKey"`
	UserID      int64       `json:"userId" gorm:"not null;index:idx_activity_user_created,priority:1"`
	ActionType  ActionType  `json:"actionType" gorm:"type:varchar(16);not null"`
	ContentID   string      `json:"contentId" gorm:"type:varchar(64);not null"`
	ContentType ContentType `json:"contentType" gorm:"type:varchar(8);not null"`
	Title       *string     `json:"title" gorm:"type:varchar(500)"`
	ImageURL    *string     `json:"imageUrl" gorm:"type:varchar(500)"`
	Score       *int        `json:"score"`
	Status      *string     `json:"status" gorm:"type:varchar(16)"`
	Snippet     *string     `json:"snippet" gorm:"type:text"`
	ReviewID    *int64      `json:"reviewId,omitempty" gorm:"index"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"not null;index:idx_activity_user_created,priority:2;index:idx_activity_created"`
}

func (Activity) TableName() string { return "activities" }

// ActivityLike 动态点赞，(activity_id, user_id) 唯一
type ActivityLike struct {
	ID         int64     `gorm:"primaryKey"`
	ActivityID int64     `gorm:"not null;uniqueIndex:ux_like_activity_user"`
	UserID     int64     `gorm:"not null;uniqueIndex:ux_like_activity_user;index"`
	CreatedAt  time.Time
}

func (ActivityLike) TableName() string { return "activity_likes" }
