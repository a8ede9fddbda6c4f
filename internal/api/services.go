package api

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/api/handler"
	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/cache"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/mailer"
	"github.com/d60-Lab/shelf/pkg/token"
)

// Deps 组装服务所需的外部依赖
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Providers provider.Registry
	Tokens    *token.Manager
	Mailer    mailer.Mailer
	Paging    service.Paging
	Metrics   *middleware.Metrics // optional

	SearchCacheTTL time.Duration
	ResetTTL       time.Duration
	Content        service.ContentOptions
	Auth           service.AuthOptions
}

// NewServices 按依赖顺序构建 repository 与 service
func NewServices(d Deps) handler.Services {
	db := d.DB
	tx := repository.NewTxManager(db)
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	activities := repository.NewActivityRepository(db)
	ratings := repository.NewRatingRepository(db)
	feed := repository.NewFeedRepository(db)

	activity := service.NewActivityService(tx, activities, ratings, repository.NewOutboxRepository(db))
	search := cache.NewSearchCache(d.Redis, d.SearchCacheTTL)
	if d.Metrics != nil {
		search.Instrument(d.Metrics.SearchCacheCounters())
	}
	content := service.NewContentService(repository.NewContentRepository(db), d.Providers, search, d.Content)

	return handler.Services{
		Auth:     service.NewAuthService(users, d.Tokens, cache.NewTokenStore(d.Redis, d.ResetTTL), d.Mailer, d.Auth),
		Users:    service.NewUserService(users, follows, feed),
		Follow:   service.NewRelationshipService(users, follows, d.Paging),
		Feed:     service.NewFeedService(users, feed, d.Paging),
		Likes:    service.NewLikeService(activities, repository.NewLikeRepository(db)),
		Ratings:  service.NewRatingService(tx, ratings, activity, content, d.Paging),
		Reviews:  service.NewReviewService(tx, repository.NewReviewRepository(db), activities, activity, content, d.Paging),
		Library:  service.NewLibraryService(tx, users, repository.NewUserContentRepository(db), activity, content),
		Lists:    service.NewCustomListService(tx, repository.NewCustomListRepository(db), content),
		Content:  content,
		Discover: service.NewDiscoverService(repository.NewDiscoverRepository(db)),
	}
}
