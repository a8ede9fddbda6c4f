package service

import (
	"context"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

// RelationshipService 关系链服务；关注数/粉丝数读时统计
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followedID int64) (*model.UserSummary, error)
	Unfollow(ctx context.Context, followerID, followedID int64) (*model.UserSummary, error)
	ListFollowing(ctx context.Context, userID int64, page, pageSize int) (*model.Page[model.UserSummary], error)
	ListFollowers(ctx context.Context, userID int64, page, pageSize int) (*model.Page[model.UserSummary], error)
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
}

type relationshipService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	paging  Paging
}

func NewRelationshipService(users repository.UserRepository, follows repository.FollowRepository, paging Paging) RelationshipService {
	return &relationshipService{users: users, follows: follows, paging: paging}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followedID int64) (*model.UserSummary, error) {
	if followerID == followedID {
		return nil, ErrFollowSelf
	}
	if err := s.mustExist(ctx, followedID); err != nil {
		return nil, err
	}
	created, err := s.follows.Create(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyFollowing
	}
	return s.users.Summary(ctx, followedID)
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followedID int64) (*model.UserSummary, error) {
	if err := s.mustExist(ctx, followedID); err != nil {
		return nil, err
	}
	deleted, err := s.follows.Delete(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrNotFollowing
	}
	return s.users.Summary(ctx, followedID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID int64, page, pageSize int) (*model.Page[model.UserSummary], error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	page, pageSize = s.paging.Clamp(page, pageSize)
	items, total, err := s.follows.ListFollowing(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.UserSummary]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID int64, page, pageSize int) (*model.Page[model.UserSummary], error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	page, pageSize = s.paging.Clamp(page, pageSize)
	items, total, err := s.follows.ListFollowers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.UserSummary]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	if followerID == 0 || followerID == followedID {
		return false, nil
	}
	return s.follows.Exists(ctx, followerID, followedID)
}

func (s *relationshipService) mustExist(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
