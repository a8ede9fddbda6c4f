package service

import (
	"context"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

// FeedService 动态流：自己 + 关注的人，按 (created_at, id) 倒序分页
type FeedService interface {
	Feed(ctx context.Context, viewerID int64, page, pageSize int) (*model.Page[model.FeedItem], error)
	// UserActivities is one user's timeline, annotated for the optional viewer.
	UserActivities(ctx context.Context, viewerID, authorID int64, page, pageSize int) (*model.Page[model.FeedItem], error)
}

type feedService struct {
	users  repository.UserRepository
	feed   repository.FeedRepository
	paging Paging
}

func NewFeedService(users repository.UserRepository, feed repository.FeedRepository, paging Paging) FeedService {
	return &feedService{users: users, feed: feed, paging: paging}
}

func (s *feedService) Feed(ctx context.Context, viewerID int64, page, pageSize int) (*model.Page[model.FeedItem], error) {
	return s.page(ctx, repository.FeedScope{ViewerID: viewerID}, page, pageSize)
}

func (s *feedService) UserActivities(ctx context.Context, viewerID, authorID int64, page, pageSize int) (*model.Page[model.FeedItem], error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.page(ctx, repository.FeedScope{ViewerID: viewerID, AuthorID: authorID}, page, pageSize)
}

func (s *feedService) page(ctx context.Context, scope repository.FeedScope, page, pageSize int) (*model.Page[model.FeedItem], error) {
	page, pageSize = s.paging.Clamp(page, pageSize)
	items, total, err := s.feed.Page(ctx, scope, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.FeedItem]{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}
