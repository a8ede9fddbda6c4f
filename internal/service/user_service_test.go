package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/model"
)

func TestUser_Profile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 3)
	owner, fan, other := u[0].ID, u[1].ID, u[2].ID

	_, err := e.follow.Follow(ctx, fan, owner)
	require.NoError(t, err)
	_, err = e.follow.Follow(ctx, owner, other)
	require.NoError(t, err)
	_, err = e.ratings.Rate(ctx, owner, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 9})
	require.NoError(t, err)

	p, err := e.users.Profile(ctx, fan, owner)
	require.NoError(t, err)
	assert.Equal(t, "user0", p.User.Username)
	assert.Equal(t, model.ProfileStats{FollowersCount: 1, FollowingCount: 1}, p.Stats)
	assert.True(t, p.IsFollowing)
	assert.False(t, p.IsSelf)
	require.Len(t, p.Activities, 1)

	self, err := e.users.Profile(ctx, owner, owner)
	require.NoError(t, err)
	assert.True(t, self.IsSelf)
	assert.False(t, self.IsFollowing)

	anon, err := e.users.Profile(ctx, 0, owner)
	require.NoError(t, err)
	assert.False(t, anon.IsFollowing)

	_, err = e.users.Profile(ctx, 0, 31337)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUser_UpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]

	bio := "reads a lot"
	got, err := e.users.UpdateProfile(ctx, u.ID, ProfileInput{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, got.Bio)
	assert.Equal(t, bio, *got.Bio)
	assert.Nil(t, got.AvatarURL)

	long := strings.Repeat("b", 1001)
	_, err = e.users.UpdateProfile(ctx, u.ID, ProfileInput{Bio: &long})
	assert.ErrorIs(t, err, ErrBioTooLong)
}

func TestDiscover(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	users := e.seed(t, 3)
	for i, u := range users {
		_, err := e.ratings.Rate(ctx, u.ID, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 6 + i})
		require.NoError(t, err)
		_, err = e.library.SetStatus(ctx, u.ID, StatusInput{ContentID: "42", Type: model.ContentMovie, Status: model.StatusWatched})
		require.NoError(t, err)
	}

	top, err := e.discover.TopRated(ctx, model.ContentMovie, 3, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(3), top[0].VoteCount)
	assert.InDelta(t, 7.0, top[0].AverageScore, 0.001)
	require.NotNil(t, top[0].Title)
	assert.Equal(t, "Forty Two", *top[0].Title)

	top, err = e.discover.TopRated(ctx, model.ContentMovie, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, top, "default minimum is five votes")

	pop, err := e.discover.MostPopular(ctx, model.ContentMovie, 0)
	require.NoError(t, err)
	require.Len(t, pop, 1)
	assert.Equal(t, int64(3), pop[0].Count)

	_, err = e.discover.MostPopular(ctx, "tv", 0)
	assert.ErrorIs(t, err, ErrInvalidContentType)
}
