package model

import "time"

type Review struct {
	ID        int64       `json:"id" gorm:"primaryKey"`
	UserID    int64       `json:"userId" gorm:"not null;index"`
	ContentID string      `json:"contentId" gorm:"type:varchar(64);not null;index:idx_review_content"`
	Type      ContentType `json:"type" gorm:"type:varchar(8);not null;index:idx_review_content"`
	Text      string      `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }

// ReviewView is a review joined with its author.
type ReviewView struct {
	Review
	Author Author `json:"user" gorm:"-"`
}
