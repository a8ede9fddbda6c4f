package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/testutil"
)

func TestFollowRepository_EdgeLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()
	u := testutil.SeedUsers(t, db, "f", 3)

	created, err := repo.Create(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.False(t, created, "duplicate edge must not be inserted")

	_, err = repo.Create(ctx, u[2].ID, u[1].ID)
	require.NoError(t, err)

	sum, err := users.Summary(ctx, u[1].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.FollowersCount)
	assert.Equal(t, int64(0), sum.FollowingCount)

	followers, total, err := repo.ListFollowers(ctx, u[1].ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, followers, 1)

	deleted, err := repo.Delete(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	ok, err := repo.Exists(ctx, u[0].ID, u[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeedRepository_PaginationIsStableAndExhaustive(t *testing.T) {
	db := testutil.NewDB(t)
	follows := NewFollowRepository(db)
	feed := NewFeedRepository(db)
	ctx := context.Background()

	users := testutil.SeedUsers(t, db, "p", 4)
	viewer, stranger := users[0], users[3]
	seedActivities(t, db, users, 7)
	_, err := follows.Create(ctx, viewer.ID, users[1].ID)
	require.NoError(t, err)
	_, err = follows.Create(ctx, viewer.ID, users[2].ID)
	require.NoError(t, err)

	// same timestamp for two rows: the id breaks the tie
	same := time.Now()
	require.NoError(t, db.Model(&model.Activity{}).Where("user_id = ?", users[1].ID).Update("created_at", same).Error)

	seen := map[int64]bool{}
	var prev *model.FeedItem
	var total int64
	for page := 1; ; page++ {
		items, n, err := feed.Page(ctx, FeedScope{ViewerID: viewer.ID}, page, 4)
		require.NoError(t, err)
		total = n
		if len(items) == 0 {
			break
		}
		for i := range items {
			it := items[i]
			assert.False(t, seen[it.ID], "activity %d returned twice", it.ID)
			seen[it.ID] = true
			assert.NotEqual(t, stranger.ID, it.User.ID)
			if prev != nil {
				ordered := it.CreatedAt.Before(prev.CreatedAt) ||
					(it.CreatedAt.Equal(prev.CreatedAt) && it.ID < prev.ID)
				assert.True(t, ordered, "items out of order: %d after %d", it.ID, prev.ID)
			}
			prev = &items[i]
		}
	}
	assert.Equal(t, int64(21), total)
	assert.Len(t, seen, 21)
}

func TestFeedRepository_LikeAnnotations(t *testing.T) {
	db := testutil.NewDB(t)
	feed := NewFeedRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	users := testutil.SeedUsers(t, db, "l", 2)
	seedActivities(t, db, users[:1], 1)
	var a model.Activity
	require.NoError(t, db.First(&a).Error)

	require.NoError(t, likes.Create(ctx, a.ID, users[1].ID))
	require.NoError(t, likes.Create(ctx, a.ID, users[1].ID))

	items, _, err := feed.Page(ctx, FeedScope{ViewerID: users[1].ID, AuthorID: users[0].ID}, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].LikeCount)
	assert.True(t, items[0].LikedByUser)
	assert.Equal(t, users[0].Username, items[0].User.Username)

	items, _, err = feed.Page(ctx, FeedScope{ViewerID: users[0].ID}, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].LikedByUser)
}

func TestRatingRepository_UpsertKeepsOneRowPerKey(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()
	ref := model.ContentRef{ID: "42", Type: model.ContentMovie}

	require.NoError(t, repo.Upsert(ctx, &model.Rating{UserID: 1, ContentID: "42", Type: model.ContentMovie, Score: 4, RatedAt: time.Now()}))
	require.NoError(t, repo.Upsert(ctx, &model.Rating{UserID: 1, ContentID: "42", Type: model.ContentMovie, Score: 9, RatedAt: time.Now()}))
	require.NoError(t, repo.Upsert(ctx, &model.Rating{UserID: 2, ContentID: "42", Type: model.ContentMovie, Score: 6, RatedAt: time.Now()}))

	var n int64
	require.NoError(t, db.Model(&model.Rating{}).Where("user_id = ?", 1).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, 1, ref)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Score)

	sum, err := repo.Summary(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Count)
	assert.InDelta(t, 7.5, sum.Average, 0.001)

	empty, err := repo.Summary(ctx, model.ContentRef{ID: "none", Type: model.ContentBook})
	require.NoError(t, err)
	assert.Equal(t, model.RatingSummary{}, empty)
}

func TestRatingRepository_CheckConstraint(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRatingRepository(db)
	err := repo.Upsert(context.Background(), &model.Rating{UserID: 1, ContentID: "1", Type: model.ContentBook, Score: 11, RatedAt: time.Now()})
	assert.Error(t, err)
}

func TestOutboxRepository_ClaimAndRetry(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Outbox{Topic: "t", AggregateID: int64(i + 1), Payload: []byte(`{}`)}))
	}

	stale := time.Now().Add(-time.Minute)
	batch, err := repo.Claim(ctx, 2, stale)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	again, err := repo.Claim(ctx, 10, stale)
	require.NoError(t, err)
	require.Len(t, again, 1, "claimed rows are not handed out twice")

	require.NoError(t, repo.MarkDone(ctx, batch[0].ID))
	require.NoError(t, repo.MarkRetry(ctx, batch[1].ID, 1, 3))
	require.NoError(t, repo.MarkRetry(ctx, again[0].ID, 3, 3))

	for status, want := range map[string]int64{
		model.OutboxDone:       1,
		model.OutboxPending:    1,
		model.OutboxFailed:     1,
		model.OutboxProcessing: 0,
	} {
		n, err := repo.CountByStatus(ctx, status)
		require.NoError(t, err)
		assert.Equal(t, want, n, status)
	}
}

func TestOffsetLimit(t *testing.T) {
	off, lim := offsetLimit(3, 20)
	assert.Equal(t, 40, off)
	assert.Equal(t, 20, lim)

	off, _ = offsetLimit(math.MaxInt64/10, 20)
	assert.Equal(t, math.MaxInt, off, "saturates instead of wrapping negative")
}

func TestOutboxRepository_ClaimExpiredLease(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Outbox{Topic: "t", AggregateID: 1, Payload: []byte(`{}`)}))

	first, err := repo.Claim(ctx, 10, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, first, 1)

	var row model.Outbox
	require.NoError(t, db.First(&row, first[0].ID).Error)
	require.NotNil(t, row.ClaimedAt)

	held, err := repo.Claim(ctx, 10, row.ClaimedAt.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, held)

	reclaimed, err := repo.Claim(ctx, 10, row.ClaimedAt.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, first[0].ID, reclaimed[0].ID)
}

func TestContentRepository_UpsertAndInsertIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	ref := model.ContentRef{ID: "603", Type: model.ContentMovie}

	require.NoError(t, repo.InsertIfAbsent(ctx, &model.Content{ID: "603", Type: model.ContentMovie, Title: "hint"}))
	require.NoError(t, repo.InsertIfAbsent(ctx, &model.Content{ID: "603", Type: model.ContentMovie, Title: "ignored"}))
	got, err := repo.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "hint", got.Title)

	require.NoError(t, repo.Upsert(ctx, &model.Content{ID: "603", Type: model.ContentMovie, Title: "The Matrix", FetchedAt: time.Now()}))
	got, err = repo.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)

	// same id, different type is a different record
	require.NoError(t, repo.Upsert(ctx, &model.Content{ID: "603", Type: model.ContentBook, Title: "A Book"}))
	book, err := repo.Get(ctx, model.ContentRef{ID: "603", Type: model.ContentBook})
	require.NoError(t, err)
	assert.Equal(t, "A Book", book.Title)
	got, err = repo.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
}

func TestUserContentRepository_UpsertReturnsStoredRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserContentRepository(db)
	ctx := context.Background()
	now := time.Now()

	first := &model.UserContent{UserID: 1, ContentID: "9", Type: model.ContentBook, Status: model.StatusToRead, SavedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Upsert(ctx, first))
	second := &model.UserContent{UserID: 1, ContentID: "9", Type: model.ContentBook, Status: model.StatusRead, SavedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StatusRead, second.Status)

	all, err := repo.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	ok, err := repo.DeleteOwned(ctx, second.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.DeleteOwned(ctx, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
