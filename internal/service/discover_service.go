package service

import (
	"context"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

const (
	DefaultMinVotes      = 5
	DefaultDiscoverLimit = 20
)

type DiscoverService interface {
	TopRated(ctx context.Context, t model.ContentType, minVotes, limit int) ([]model.DiscoverEntry, error)
	MostPopular(ctx context.Context, t model.ContentType, limit int) ([]model.DiscoverEntry, error)
}

type discoverService struct {
	repo repository.DiscoverRepository
}

func NewDiscoverService(repo repository.DiscoverRepository) DiscoverService {
	return &discoverService{repo: repo}
}

func (s *discoverService) TopRated(ctx context.Context, t model.ContentType, minVotes, limit int) ([]model.DiscoverEntry, error) {
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}
	if minVotes < 1 {
		minVotes = DefaultMinVotes
	}
	return s.repo.TopRated(ctx, t, minVotes, discoverLimit(limit))
}

func (s *discoverService) MostPopular(ctx context.Context, t model.ContentType, limit int) ([]model.DiscoverEntry, error) {
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}
	return s.repo.MostPopular(ctx, t, discoverLimit(limit))
}

func discoverLimit(limit int) int {
	if limit < 1 || limit > 100 {
		return DefaultDiscoverLimit
	}
	return limit
}
