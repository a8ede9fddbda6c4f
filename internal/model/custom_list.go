package model

import "time"

type CustomList struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"userId" gorm:"not null;index"`
	Name      string           `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string           `json:"slug" gorm:"type:varchar(120);not null"`
	CreatedAt time.Time        `json:"createdAt"`
	Items     []CustomListItem `json:"items" gorm:"foreignKey:CustomListID"`
}

func (CustomList) TableName() string { return "custom_lists" }

type CustomListItem struct {
	ID           int64       `json:"id" gorm:"primaryKey"`
	CustomListID int64       `json:"customListId" gorm:"not null;uniqueIndex:ux_list_item"`
	ContentID    string      `json:"contentId" gorm:"type:varchar(64);not null;uniqueIndex:ux_list_item"`
	Type         ContentType `json:"type" gorm:"type:varchar(8);not null;uniqueIndex:ux_list_item"`
	Title        string      `json:"title" gorm:"type:varchar(500)"`
	ImageURL     *string     `json:"imageUrl" gorm:"type:varchar(500)"`
	AddedAt      time.Time   `json:"addedAt"`
}

func (CustomListItem) TableName() string { return "custom_list_items" }

// ListItemState is the membership of one content ref in one list.
type ListItemState bool

const (
	ItemAbsent  ListItemState = false
	ItemPresent ListItemState = true
)

// Toggle is the only transition: absent <-> present.
func (s ListItemState) Toggle() ListItemState { return !s }

func (s ListItemState) Action() string {
	if s == ItemPresent {
		return "added"
	}
	return "removed"
}
