package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/shelf/config"
	"github.com/d60-Lab/shelf/internal/cache"
	"github.com/d60-Lab/shelf/internal/events"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/database"
	"github.com/d60-Lab/shelf/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

// feedbench: 一个作者 + N 个粉丝，作者连续评分 RATINGS 次，
// 统计写入事务延迟、outbox 投递延迟以及粉丝首页动态流读取延迟。
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	_ = logger.Init(cfg.Log)
	db := must(database.InitDB(cfg))

	n := envInt("N", 20000)
	ratings := envInt("RATINGS", 100)
	workers := envInt("WORKERS", 4)
	claim := envInt("CLAIM", 64)
	reads := envInt("READS", 200)

	// 仅用于本地压测
	_ = db.Exec("TRUNCATE TABLE outbox, activity_likes, ratings, activities, contents, follows, users RESTART IDENTITY CASCADE").Error

	author := model.User{Username: "author0", Email: "author0@example.com", PasswordHash: "x"}
	mustDo(db.Create(&author).Error)
	fans := make([]model.User, n)
	for i := range fans {
		name := fmt.Sprintf("fan%d", i)
		fans[i] = model.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	}
	mustDo(db.CreateInBatches(&fans, 1000).Error)

	follows := repository.NewFollowRepository(db)
	for i := range fans {
		must(follows.Create(ctx, fans[i].ID, author.ID))
	}

	tx := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	outbox := repository.NewOutboxRepository(db)
	// 无上游 provider：内容行按 hint 写入
	content := service.NewContentService(repository.NewContentRepository(db), provider.Registry{},
		cache.NewSearchCache(nil, 0), service.ContentOptions{})
	activity := service.NewActivityService(tx, repository.NewActivityRepository(db), ratingRepo, outbox)
	rating := service.NewRatingService(tx, ratingRepo, activity, content, service.DefaultPaging)
	feed := service.NewFeedService(userRepo, repository.NewFeedRepository(db), service.DefaultPaging)

	relay := service.NewOutboxRelay(outbox, events.LogPublisher{}, service.RelayOptions{
		Workers:      workers,
		ClaimLimit:   claim,
		PollInterval: 20 * time.Millisecond,
	})
	stop := relay.Start()
	defer func() { _ = stop(ctx) }()

	writes := make([]time.Duration, 0, ratings)
	for i := 0; i < ratings; i++ {
		st := time.Now()
		_, err := rating.Rate(ctx, author.ID, service.RateInput{
			ContentID: fmt.Sprintf("bench-%d", i),
			Type:      model.ContentMovie,
			Score:     1 + i%10,
			Title:     fmt.Sprintf("Bench Movie %d", i),
		})
		if err != nil {
			panic(err)
		}
		writes = append(writes, time.Since(st))
	}

	landed := make([]time.Duration, 0, ratings)
	timeout := time.After(2 * time.Minute)
collect:
	for len(landed) < ratings {
		select {
		case d := <-relay.Metrics():
			landed = append(landed, d)
		case <-timeout:
			fmt.Printf("timeout while waiting for outbox metrics: got=%d want=%d\n", len(landed), ratings)
			break collect
		}
	}

	readLat := make([]time.Duration, 0, reads)
	for i := 0; i < reads; i++ {
		viewer := fans[i%len(fans)].ID
		st := time.Now()
		page := must(feed.Feed(ctx, viewer, 1, 20))
		readLat = append(readLat, time.Since(st))
		if i == 0 {
			fmt.Printf("first page: total=%d items=%d\n", page.Total, len(page.Items))
		}
	}

	fmt.Printf("N=%d RATINGS=%d WORKERS=%d CLAIM=%d READS=%d\n", n, ratings, workers, claim, reads)
	fmt.Printf("Rate tx latency: avg=%v p95=%v p99=%v\n", avg(writes), pct(writes, 0.95), pct(writes, 0.99))
	fmt.Printf("Outbox landing (created->published): samples=%d avg=%v p95=%v p99=%v\n",
		len(landed), avg(landed), pct(landed, 0.95), pct(landed, 0.99))
	fmt.Printf("Feed read (page=1, size=20): avg=%v p95=%v p99=%v\n", avg(readLat), pct(readLat, 0.95), pct(readLat, 0.99))
}
