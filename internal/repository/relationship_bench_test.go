package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/testutil"
)

func BenchmarkFollowWrite(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := testutil.SeedUsers(b, db, "u", 1000)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_, _ = followRepo.Create(ctx, from, to)
	}
}

func BenchmarkQueryFollowersAndFollowing(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 构造：u0 有 N 个粉丝，同时 u0 也关注这 N 个用户
	const N = 2000
	users := testutil.SeedUsers(b, db, "u", N+1)
	u0 := users[0].ID
	for _, u := range users[1:] {
		_, _ = followRepo.Create(ctx, u.ID, u0)
		_, _ = followRepo.Create(ctx, u0, u.ID)
	}

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = followRepo.ListFollowers(ctx, u0, 1, 50)
		}
	})
	b.Run("ListFollowing", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = followRepo.ListFollowing(ctx, u0, 1, 50)
		}
	})
}

func BenchmarkFeedPage(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	feedRepo := NewFeedRepository(db)
	ctx := context.Background()

	// 构造：viewer 关注 200 人，每人 20 条动态
	users := testutil.SeedUsers(b, db, "u", 201)
	viewer := users[0].ID
	seedActivities(b, db, users[1:], 20)
	for _, u := range users[1:] {
		_, _ = followRepo.Create(ctx, viewer, u.ID)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page := i%10 + 1
		if _, _, err := feedRepo.Page(ctx, FeedScope{ViewerID: viewer}, page, 20); err != nil {
			b.Fatalf("feed page: %v", err)
		}
	}
}

func seedActivities(tb testing.TB, db *gorm.DB, authors []model.User, perAuthor int) {
	tb.Helper()
	base := time.Now().Add(-time.Hour)
	rows := make([]model.Activity, 0, len(authors)*perAuthor)
	for i, u := range authors {
		for j := 0; j < perAuthor; j++ {
			score := j%10 + 1
			title := fmt.Sprintf("title-%d", j)
			rows = append(rows, model.Activity{
				UserID:      u.ID,
				ActionType:  model.ActionRating,
				ContentID:   fmt.Sprintf("%d", j),
				ContentType: model.ContentMovie,
				Title:       &title,
				Score:       &score,
				CreatedAt:   base.Add(time.Duration(i*perAuthor+j) * time.Second),
			})
		}
	}
	if err := db.CreateInBatches(rows, 500).Error; err != nil {
		tb.Fatalf("seed activities: %v", err)
	}
}
