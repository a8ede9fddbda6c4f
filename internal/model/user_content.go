package model

import "time"

type LibraryStatus string

const (
	StatusWatched LibraryStatus = "watched"
	StatusToWatch LibraryStatus = "toWatch"
	StatusRead    LibraryStatus = "read"
	StatusToRead  LibraryStatus = "toRead"
)

// ValidFor reports whether the status applies to the content type.
func (s LibraryStatus) ValidFor(t ContentType) bool {
	switch t {
	case ContentMovie:
		return s == StatusWatched || s == StatusToWatch
	case ContentBook:
		return s == StatusRead || s == StatusToRead
	}
	return false
}

// UserContent 个人书影库条目
type UserContent struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	UserID    int64         `json:"userId" gorm:"not null;uniqueIndex:ux_user_content"`
	ContentID string        `json:"contentId" gorm:"type:varchar(64);not null;uniqueIndex:ux_user_content"`
	Type      ContentType   `json:"type" gorm:"type:varchar(8);not null;uniqueIndex:ux_user_content;index"`
	Title     string        `json:"title" gorm:"type:varchar(500)"`
	ImageURL  *string       `json:"imageUrl" gorm:"type:varchar(500)"`
	Status    LibraryStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	SavedAt   time.Time     `json:"savedAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (UserContent) TableName() string { return "user_contents" }

// Library groups a user's entries by status.
type Library struct {
	Watched []UserContent `json:"watched"`
	ToWatch []UserContent `json:"toWatch"`
	Read    []UserContent `json:"read"`
	ToRead  []UserContent `json:"toRead"`
}
