package model

import "time"

// FeedItem 动态流条目（含作者、内容摘要与对当前查看者的点赞状态）
type FeedItem struct {
	ID          int64          `json:"id"`
	ActionType  ActionType     `json:"actionType"`
	CreatedAt   time.Time      `json:"createdAt"`
	User        Author         `json:"user"`
	Content     ContentSummary `json:"content"`
	Score       *int           `json:"score"`
	Status      *string        `json:"status"`
	Snippet     *string        `json:"snippet"`
	LikeCount   int64          `json:"likeCount"`
	LikedByUser bool           `json:"likedByUser"`
}

// Page is the pagination envelope returned by every listing endpoint.
type Page[T any] struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Items    []T   `json:"items"`
}

// Profile is the public profile view.
type Profile struct {
	User        ProfileUser  `json:"user"`
	Stats       ProfileStats `json:"stats"`
	IsSelf      bool         `json:"isSelf"`
	IsFollowing bool         `json:"isFollowing"`
	Activities  []FeedItem   `json:"activities"`
}

type ProfileUser struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

type ProfileStats struct {
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// DiscoverEntry is one row of the discover rankings.
type DiscoverEntry struct {
	ContentID    string      `json:"contentId"`
	Type         ContentType `json:"type"`
	Title        *string     `json:"title"`
	ImageURL     *string     `json:"imageUrl"`
	AverageScore float64     `json:"averageScore,omitempty"`
	VoteCount    int64       `json:"voteCount,omitempty"`
	Count        int64       `json:"count,omitempty"`
}
