package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/model"
)

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("  short  "))
	long := strings.Repeat("é", SnippetLen+10)
	got := Snippet(long)
	assert.Equal(t, strings.Repeat("é", SnippetLen)+"…", got)
}

func TestReview_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 2)
	author, other := u[0].ID, u[1].ID
	ref := model.ContentRef{ID: "b1", Type: model.ContentBook}

	rv, err := e.reviews.Add(ctx, author, ReviewInput{ContentID: ref.ID, Type: ref.Type, Text: strings.Repeat("a", 300)})
	require.NoError(t, err)

	var act model.Activity
	require.NoError(t, e.db.Where("review_id = ?", rv.ID).Take(&act).Error)
	require.NotNil(t, act.Snippet)
	assert.Equal(t, strings.Repeat("a", SnippetLen)+"…", *act.Snippet)
	assert.Equal(t, model.ActionReview, act.ActionType)

	_, err = e.reviews.Update(ctx, other, rv.ID, "hijack")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	updated, err := e.reviews.Update(ctx, author, rv.ID, "better text")
	require.NoError(t, err)
	assert.Equal(t, "better text", updated.Text)
	assert.NotNil(t, updated.UpdatedAt)
	require.NoError(t, e.db.First(&act, act.ID).Error)
	assert.Equal(t, "better text", *act.Snippet)

	list, err := e.reviews.ListForContent(ctx, ref, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "user0", list.Items[0].Author.Username)

	_, err = e.likes.Like(ctx, act.ID, other)
	require.NoError(t, err)

	assert.ErrorIs(t, e.reviews.Delete(ctx, other, rv.ID), ErrReviewNotFound)
	require.NoError(t, e.reviews.Delete(ctx, author, rv.ID))
	assert.Zero(t, e.count(t, &model.Review{}))
	assert.Zero(t, e.count(t, &model.Activity{}))
	assert.Zero(t, e.count(t, &model.ActivityLike{}))
}

func TestReview_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]

	_, err := e.reviews.Add(ctx, u.ID, ReviewInput{ContentID: "b1", Type: model.ContentBook, Text: "   "})
	assert.ErrorIs(t, err, ErrReviewText)
	_, err = e.reviews.Add(ctx, u.ID, ReviewInput{ContentID: "b1", Type: model.ContentBook, Text: strings.Repeat("x", MaxReviewLen+1)})
	assert.ErrorIs(t, err, ErrReviewText)
	assert.Zero(t, e.count(t, &model.Review{}))
}
