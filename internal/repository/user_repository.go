package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, bio, avatarURL *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Summary(ctx context.Context, id int64) (*model.UserSummary, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&cnt).Error
	return cnt > 0, err
}

// UpdateProfile only touches the fields that are non-nil.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, bio, avatarURL *string) (*model.User, error) {
	updates := map[string]any{}
	if bio != nil {
		updates["bio"] = *bio
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Summary derives follower/following counts from the follows table.
func (r *userRepository) Summary(ctx context.Context, id int64) (*model.UserSummary, error) {
	var s model.UserSummary
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id, u.username, u.avatar_url,
			(SELECT COUNT(*) FROM follows f WHERE f.followed_id = u.id) AS followers_count,
			(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count`).
		Where("u.id = ?", id).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IsNotFound reports gorm's record-not-found.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// IsDuplicate reports a unique constraint violation (requires TranslateError).
func IsDuplicate(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
