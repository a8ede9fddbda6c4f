package service

import (
	"context"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

// ProfileActivityLimit is how many recent activities a profile embeds.
const ProfileActivityLimit = 10

type ProfileInput struct {
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,max=500"`
}

type UserService interface {
	Profile(ctx context.Context, viewerID, userID int64) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*model.User, error)
}

type userService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	feed    repository.FeedRepository
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository, feed repository.FeedRepository) UserService {
	return &userService{users: users, follows: follows, feed: feed}
}

// Profile loads the user, counters, follow state and recent activities concurrently.
func (s *userService) Profile(ctx context.Context, viewerID, userID int64) (*model.Profile, error) {
	var (
		user       *model.User
		followers  int64
		following  int64
		isFollow   bool
		activities []model.FeedItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetByID(gctx, userID)
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		followers, err = s.follows.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.follows.CountFollowing(gctx, userID)
		return err
	})
	if viewerID != 0 && viewerID != userID {
		g.Go(func() error {
			var err error
			isFollow, err = s.follows.Exists(gctx, viewerID, userID)
			return err
		})
	}
	g.Go(func() error {
		var err error
		activities, _, err = s.feed.Page(gctx, repository.FeedScope{ViewerID: viewerID, AuthorID: userID}, 1, ProfileActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Profile{
		User: model.ProfileUser{
			ID:        user.ID,
			Username:  user.Username,
			Bio:       user.Bio,
			AvatarURL: user.AvatarURL,
		},
		Stats:       model.ProfileStats{FollowersCount: followers, FollowingCount: following},
		IsSelf:      viewerID == userID,
		IsFollowing: isFollow,
		Activities:  activities,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*model.User, error) {
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > 1000 {
		return nil, ErrBioTooLong
	}
	if in.AvatarURL != nil && len(*in.AvatarURL) > 500 {
		return nil, ErrAvatarTooLong
	}
	u, err := s.users.UpdateProfile(ctx, userID, in.Bio, in.AvatarURL)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	return u, err
}
