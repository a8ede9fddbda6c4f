package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxDone       = "done"
	OutboxFailed     = "failed"
)

// Outbox 事件外发盒：与业务写入同一事务落地，由 OutboxRelay 异步投递
type Outbox struct {
	ID          int64          `gorm:"primaryKey"`
	Topic       string         `gorm:"type:varchar(64);not null"`
	AggregateID int64          `gorm:"not null;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	Status      string         `gorm:"type:varchar(16);not null;index:idx_outbox_status_created,priority:1"`
	Attempts    int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"index:idx_outbox_status_created,priority:2"`
	ClaimedAt   *time.Time
	ProcessedAt *time.Time
}

func (Outbox) TableName() string { return "outbox" }
