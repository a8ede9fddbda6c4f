package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shelf/internal/model"
)

type FollowRepository interface {
	// Create reports false when the edge already existed.
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	// Delete reports false when there was no edge to remove.
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]model.UserSummary, int64, error)
	ListFollowers(ctx context.Context, userID int64, page, pageSize int) ([]model.UserSummary, int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	f := &model.Follow{FollowerID: followerID, FollowedID: followedID}
	// 并发重复关注只会落一条：唯一键冲突时 RowsAffected == 0
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]model.UserSummary, int64, error) {
	return r.list(ctx, "follower_id", "followed_id", userID, page, pageSize)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID int64, page, pageSize int) ([]model.UserSummary, int64, error) {
	return r.list(ctx, "followed_id", "follower_id", userID, page, pageSize)
}

// list pages over one side of the edge set joined with users, newest edge first.
func (r *followRepository) list(ctx context.Context, byCol, otherCol string, userID int64, page, pageSize int) ([]model.UserSummary, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).Where(byCol+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	res := []model.UserSummary{}
	if total == 0 {
		return res, 0, nil
	}
	offset, limit := offsetLimit(page, pageSize)
	err := r.db.WithContext(ctx).
		Table("follows fl").
		Select(`u.id, u.username, u.avatar_url,
			(SELECT COUNT(*) FROM follows f WHERE f.followed_id = u.id) AS followers_count,
			(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count`).
		Joins("JOIN users u ON u.id = fl."+otherCol).
		Where("fl."+byCol+" = ?", userID).
		Order("fl.created_at DESC, fl.id DESC").
		Offset(offset).Limit(limit).
		Scan(&res).Error
	return res, total, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}
