package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type CustomListRepository interface {
	WithTx(tx *gorm.DB) CustomListRepository
	ListByUser(ctx context.Context, userID int64) ([]model.CustomList, error)
	Create(ctx context.Context, l *model.CustomList) error
	// GetOwned returns gorm.ErrRecordNotFound for missing or foreign lists.
	GetOwned(ctx context.Context, id, userID int64) (*model.CustomList, error)
	Delete(ctx context.Context, id int64) error
	FindItem(ctx context.Context, listID int64, ref model.ContentRef) (*model.CustomListItem, error)
	// AddItem is a no-op when the ref is already in the list.
	AddItem(ctx context.Context, item *model.CustomListItem) error
	RemoveItem(ctx context.Context, itemID int64) error
}

type customListRepository struct {
	db *gorm.DB
}

func NewCustomListRepository(db *gorm.DB) CustomListRepository {
	return &customListRepository{db: db}
}

func (r *customListRepository) WithTx(tx *gorm.DB) CustomListRepository {
	return &customListRepository{db: tx}
}

func (r *customListRepository) ListByUser(ctx context.Context, userID int64) ([]model.CustomList, error) {
	res := []model.CustomList{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at DESC, id DESC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&res).Error
	return res, err
}

func (r *customListRepository) Create(ctx context.Context, l *model.CustomList) error {
	return r.db.WithContext(ctx).Omit("Items").Create(l).Error
}

func (r *customListRepository) GetOwned(ctx context.Context, id, userID int64) (*model.CustomList, error) {
	var l model.CustomList
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *customListRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("custom_list_id = ?", id).Delete(&model.CustomListItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.CustomList{}, id).Error
}

func (r *customListRepository) FindItem(ctx context.Context, listID int64, ref model.ContentRef) (*model.CustomListItem, error) {
	var it model.CustomListItem
	err := r.db.WithContext(ctx).
		Where("custom_list_id = ? AND content_id = ? AND type = ?", listID, ref.ID, ref.Type).
		Take(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *customListRepository) AddItem(ctx context.Context, item *model.CustomListItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

func (r *customListRepository) RemoveItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Delete(&model.CustomListItem{}, itemID).Error
}
