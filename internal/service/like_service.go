package service

import (
	"context"

	"github.com/d60-Lab/shelf/internal/repository"
)

// LikeState is returned by like and unlike.
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// LikeService 点赞：两个方向都幂等，不做缓存
type LikeService interface {
	Like(ctx context.Context, activityID, userID int64) (LikeState, error)
	Unlike(ctx context.Context, activityID, userID int64) (LikeState, error)
}

type likeService struct {
	activities repository.ActivityRepository
	likes      repository.LikeRepository
}

func NewLikeService(activities repository.ActivityRepository, likes repository.LikeRepository) LikeService {
	return &likeService{activities: activities, likes: likes}
}

func (s *likeService) Like(ctx context.Context, activityID, userID int64) (LikeState, error) {
	if err := s.mustExist(ctx, activityID); err != nil {
		return LikeState{}, err
	}
	if err := s.likes.Create(ctx, activityID, userID); err != nil {
		return LikeState{}, err
	}
	return s.state(ctx, activityID, true)
}

func (s *likeService) Unlike(ctx context.Context, activityID, userID int64) (LikeState, error) {
	if err := s.mustExist(ctx, activityID); err != nil {
		return LikeState{}, err
	}
	if err := s.likes.Delete(ctx, activityID, userID); err != nil {
		return LikeState{}, err
	}
	return s.state(ctx, activityID, false)
}

func (s *likeService) mustExist(ctx context.Context, activityID int64) error {
	ok, err := s.activities.Exists(ctx, activityID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrActivityNotFound
	}
	return nil
}

func (s *likeService) state(ctx context.Context, activityID int64, liked bool) (LikeState, error) {
	n, err := s.likes.Count(ctx, activityID)
	if err != nil {
		return LikeState{}, err
	}
	return LikeState{Liked: liked, LikeCount: n}, nil
}
