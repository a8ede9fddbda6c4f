package model

import (
	"time"

	"gorm.io/datatypes"
)

type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentBook  ContentType = "book"
)

func (t ContentType) Valid() bool { return t == ContentMovie || t == ContentBook }

// ContentRef identifies an external record.
type ContentRef struct {
	ID   string      `json:"id"`
	Type ContentType `json:"type"`
}

// Content 外部内容（TMDB / Google Books）的本地镜像
type Content struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Type        ContentType    `json:"type" gorm:"primaryKey;type:varchar(8)"`
	Title       string         `json:"title" gorm:"type:varchar(500);not null"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	Year        *string        `json:"year,omitempty" gorm:"type:varchar(8)"`
	ImageURL    *string        `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	Details     datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	FetchedAt   time.Time      `json:"fetchedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Content) TableName() string { return "contents" }

func (c *Content) Ref() ContentRef { return ContentRef{ID: c.ID, Type: c.Type} }

// ContentDetails is the provider-specific part stored in Content.Details.
type ContentDetails struct {
	Genre          string  `json:"genre,omitempty"`
	Authors        string  `json:"authors,omitempty"`
	Director       string  `json:"director,omitempty"`
	ProviderRating float64 `json:"providerRating,omitempty"`
}

// ContentSummary is the denormalized content shape embedded in feed items.
type ContentSummary struct {
	ID       string      `json:"id"`
	Type     ContentType `json:"type"`
	Title    *string     `json:"title"`
	ImageURL *string     `json:"imageUrl"`
}
