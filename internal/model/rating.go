package model

import "time"

// Rating 评分：rating 类动态按 (user, content, type) 物化出的当前值
type Rating struct {
	ID        int64       `json:"id" gorm:"primaryKey"`
	UserID    int64       `json:"userId" gorm:"not null;uniqueIndex:ux_rating_user_content"`
	ContentID string      `json:"contentId" gorm:"type:varchar(64);not null;uniqueIndex:ux_rating_user_content;index:idx_rating_content"`
	Type      ContentType `json:"type" gorm:"type:varchar(8);not null;uniqueIndex:ux_rating_user_content;index:idx_rating_content"`
	Score     int         `json:"score" gorm:"not null;check:chk_rating_score,score >= 1 AND score <= 10"`
	RatedAt   time.Time   `json:"ratedAt" gorm:"not null"`
}

func (Rating) TableName() string { return "ratings" }

const (
	MinScore = 1
	MaxScore = 10
)

// RatingSummary 内容平均分
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
