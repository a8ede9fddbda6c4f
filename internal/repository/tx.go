package repository

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// TxManager runs fn inside one database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager { return &txManager{db: db} }

func (m *txManager) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// offsetLimit converts a 1-based page into OFFSET/LIMIT. An offset that would
// overflow saturates at math.MaxInt, which reads as past the end.
func offsetLimit(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return math.MaxInt, pageSize
	}
	return (page - 1) * pageSize, pageSize
}
