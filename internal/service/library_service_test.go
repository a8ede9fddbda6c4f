package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

func TestLibrary_SetStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	ref := model.ContentRef{ID: "42", Type: model.ContentMovie}

	_, err := e.library.SetStatus(ctx, u.ID, StatusInput{ContentID: ref.ID, Type: ref.Type, Status: model.StatusRead})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	uc, err := e.library.SetStatus(ctx, u.ID, StatusInput{ContentID: ref.ID, Type: ref.Type, Status: model.StatusToWatch})
	require.NoError(t, err)
	assert.Equal(t, "Forty Two", uc.Title)

	uc2, err := e.library.SetStatus(ctx, u.ID, StatusInput{ContentID: ref.ID, Type: ref.Type, Status: model.StatusWatched})
	require.NoError(t, err)
	assert.Equal(t, uc.ID, uc2.ID)

	st, err := e.library.Status(ctx, u.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWatched, st)
	assert.Equal(t, int64(2), e.count(t, &model.Activity{}))

	lib, err := e.library.Library(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lib.Watched, 1)
	assert.Empty(t, lib.ToWatch)

	list, err := e.library.List(ctx, u.ID, model.StatusToWatch)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = e.library.List(ctx, u.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.ErrorIs(t, e.library.Remove(ctx, u.ID+1, uc.ID), ErrEntryNotFound)
	require.NoError(t, e.library.Remove(ctx, u.ID, uc.ID))
	st, err = e.library.Status(ctx, u.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, model.LibraryStatus(""), st)
}

func TestLibrary_Favorite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]

	a, err := e.library.Favorite(ctx, u.ID, FavoriteInput{ContentID: "b1", Type: model.ContentBook})
	require.NoError(t, err)
	assert.Equal(t, model.ActionFavorite, a.ActionType)
	assert.Equal(t, int64(1), e.count(t, &model.Outbox{}))

	_, err = e.library.Library(ctx, 4242)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCustomList_ToggleTwiceIsAbsent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 2)

	l, err := e.lists.Create(ctx, u[0].ID, "  Sci-Fi Favourites ")
	require.NoError(t, err)
	assert.Equal(t, "sci-fi-favourites", l.Slug)

	in := ToggleInput{ListID: l.ID, ContentID: "42", Type: model.ContentMovie}
	res, err := e.lists.ToggleItem(ctx, u[0].ID, in)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Action: "added", Present: true}, res)

	lists, err := e.lists.Lists(ctx, u[0].ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, "Forty Two", lists[0].Items[0].Title)

	res, err = e.lists.ToggleItem(ctx, u[0].ID, in)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Action: "removed", Present: false}, res)
	assert.Zero(t, e.count(t, &model.CustomListItem{}))

	_, err = e.lists.ToggleItem(ctx, u[1].ID, in)
	assert.ErrorIs(t, err, ErrListNotFound)
	assert.ErrorIs(t, e.lists.Delete(ctx, u[1].ID, l.ID), ErrListNotFound)

	_, err = e.lists.ToggleItem(ctx, u[0].ID, in)
	require.NoError(t, err)
	require.NoError(t, e.lists.Delete(ctx, u[0].ID, l.ID))
	assert.Zero(t, e.count(t, &model.CustomList{}))
	assert.Zero(t, e.count(t, &model.CustomListItem{}))
}

func TestCustomList_RemoveSkipsProvider(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	l, err := e.lists.Create(ctx, u.ID, "Watch later")
	require.NoError(t, err)

	// 列表里已有一条内容表中没有的条目
	require.NoError(t, e.db.Create(&model.CustomListItem{
		CustomListID: l.ID, ContentID: "777", Type: model.ContentMovie, Title: "Old", AddedAt: time.Now(),
	}).Error)
	e.movies.fail(errors.New("provider down"))

	res, err := e.lists.ToggleItem(ctx, u.ID, ToggleInput{ListID: l.ID, ContentID: "777", Type: model.ContentMovie})
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Action: "removed", Present: false}, res)
	assert.Zero(t, e.movies.lookups)
	assert.Zero(t, e.count(t, &model.CustomListItem{}))
}

// staleLists 模拟两个并发 toggle 都读到 absent
type staleLists struct {
	repository.CustomListRepository
}

func (staleLists) FindItem(context.Context, int64, model.ContentRef) (*model.CustomListItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestCustomList_ConcurrentFirstToggleKeepsOneRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seed(t, 1)[0]
	l, err := e.lists.Create(ctx, u.ID, "Sci-Fi")
	require.NoError(t, err)

	lists := NewCustomListService(repository.NewTxManager(e.db),
		staleLists{repository.NewCustomListRepository(e.db)}, e.content)
	in := ToggleInput{ListID: l.ID, ContentID: "42", Type: model.ContentMovie}
	for i := 0; i < 2; i++ {
		res, err := lists.ToggleItem(ctx, u.ID, in)
		require.NoError(t, err)
		assert.Equal(t, ToggleResult{Action: "added", Present: true}, res)
	}
	assert.Equal(t, int64(1), e.count(t, &model.CustomListItem{}))
}

func TestCustomList_NameValidation(t *testing.T) {
	e := newEnv(t)
	_, err := e.lists.Create(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrListName)
}

func TestListItemState_Toggle(t *testing.T) {
	s := model.ItemAbsent
	assert.Equal(t, model.ItemPresent, s.Toggle())
	assert.Equal(t, model.ItemAbsent, s.Toggle().Toggle())
	assert.Equal(t, "added", model.ItemPresent.Action())
	assert.Equal(t, "removed", model.ItemAbsent.Action())
}
