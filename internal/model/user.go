package model

import "time"

// User 用户；关注数/粉丝数不落库，由 follows 表实时统计
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	Bio          *string   `json:"bio" gorm:"type:text"`
	AvatarURL    *string   `json:"avatarUrl" gorm:"type:varchar(500)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserSummary is the public projection of a user with derived follow counts.
type UserSummary struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	AvatarURL      *string `json:"avatarUrl"`
	FollowersCount int64   `json:"followersCount"`
	FollowingCount int64   `json:"followingCount"`
}

// Author is the minimal user shape embedded in feed items and reviews.
type Author struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
}
