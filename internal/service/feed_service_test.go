package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/model"
)

func TestPaging_Clamp(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{-3, -1, 1, 20},
		{2, 10, 2, 10},
		{1, 500, 1, 100},
		{math.MaxInt64 / 10, 20, MaxPage, 20},
	}
	for _, c := range cases {
		p, s := DefaultPaging.Clamp(c.page, c.size)
		assert.Equal(t, c.wantPage, p)
		assert.Equal(t, c.wantSize, s)
	}
}

func TestFeed_FollowerSeesRating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 2)
	a, b := u[0].ID, u[1].ID

	_, err := e.follow.Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = e.ratings.Rate(ctx, b, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 8})
	require.NoError(t, err)

	page, err := e.feed.Feed(ctx, a, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	it := page.Items[0]
	assert.Equal(t, model.ActionRating, it.ActionType)
	assert.Equal(t, b, it.User.ID)
	require.NotNil(t, it.Score)
	assert.Equal(t, 8, *it.Score)
	require.NotNil(t, it.Content.Title)
	assert.Equal(t, "Forty Two", *it.Content.Title)
	assert.Equal(t, int64(1), page.Total)
}

func TestFeed_ScopeIsSelfAndFollowees(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 3)
	me, friend, stranger := u[0].ID, u[1].ID, u[2].ID

	_, err := e.follow.Follow(ctx, me, friend)
	require.NoError(t, err)
	for _, id := range []int64{me, friend, stranger} {
		_, err := e.ratings.Rate(ctx, id, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 5})
		require.NoError(t, err)
	}

	page, err := e.feed.Feed(ctx, me, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, it := range page.Items {
		assert.NotEqual(t, stranger, it.User.ID)
	}

	// newest first
	require.Len(t, page.Items, 2)
	assert.Equal(t, friend, page.Items[0].User.ID)
	assert.Equal(t, me, page.Items[1].User.ID)

	own, err := e.feed.UserActivities(ctx, me, stranger, 1, 20)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, stranger, own.Items[0].User.ID)
}

func TestFeed_LikeReadYourWrites(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 2)
	a, b := u[0].ID, u[1].ID
	_, err := e.follow.Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = e.ratings.Rate(ctx, b, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 7})
	require.NoError(t, err)

	page, err := e.feed.Feed(ctx, a, 1, 20)
	require.NoError(t, err)
	id := page.Items[0].ID

	st, err := e.likes.Like(ctx, id, a)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, LikeCount: 1}, st)
	st, err = e.likes.Like(ctx, id, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.LikeCount)

	page, err = e.feed.Feed(ctx, a, 1, 20)
	require.NoError(t, err)
	assert.True(t, page.Items[0].LikedByUser)
	assert.Equal(t, int64(1), page.Items[0].LikeCount)

	st, err = e.likes.Unlike(ctx, id, a)
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: false, LikeCount: 0}, st)
	_, err = e.likes.Unlike(ctx, id, a)
	require.NoError(t, err)

	page, err = e.feed.Feed(ctx, a, 1, 20)
	require.NoError(t, err)
	assert.False(t, page.Items[0].LikedByUser)

	_, err = e.likes.Like(ctx, 99999, a)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestFeed_HugePageIsEmpty(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	_, err := e.ratings.Rate(ctx, u.ID, RateInput{ContentID: "42", Type: model.ContentMovie, Score: 8})
	require.NoError(t, err)

	res, err := e.feed.Feed(ctx, u.ID, math.MaxInt64/10, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, MaxPage, res.Page)
}

func TestFeed_UnknownAuthor(t *testing.T) {
	e := newEnv(t)
	_, err := e.feed.UserActivities(context.Background(), 0, 777, 1, 20)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
