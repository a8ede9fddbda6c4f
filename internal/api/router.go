package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/shelf/docs"
	"github.com/d60-Lab/shelf/internal/api/handler"
	"github.com/d60-Lab/shelf/internal/api/middleware"
)

// RouterOptions 路由依赖
type RouterOptions struct {
	Handler     *handler.Handler
	Tokens      middleware.TokenParser
	Metrics     *middleware.Metrics
	RateLimiter *middleware.RateLimiter // nil 表示不限流
	ServiceName string
	Tracing     bool
}

// NewRouter 注册全部路由
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	h := opts.Handler
	required := middleware.RequireAuth(opts.Tokens)
	optional := middleware.OptionalAuth(opts.Tokens)

	r.GET("/health", h.Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	// 限流在鉴权之后，已登录用户按 user_id 计数
	limit := func(c *gin.Context) { c.Next() }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Middleware()
	}

	auth := v1.Group("/auth", limit)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	feed := v1.Group("/feed", required, limit)
	{
		feed.GET("", h.Feed)
		feed.POST("/:activityId/like", h.Like)
		feed.DELETE("/:activityId/like", h.Unlike)
	}

	follow := v1.Group("/follow", required, limit)
	{
		follow.POST("/:targetUserId", h.Follow)
		follow.DELETE("/:targetUserId", h.Unfollow)
	}

	v1.PUT("/users/me", required, limit, h.UpdateMe)
	users := v1.Group("/users", optional, limit)
	{
		users.GET("/:id/followers", h.ListFollowers)
		users.GET("/:id/following", h.ListFollowing)
		users.GET("/:id/profile", h.Profile)
		users.GET("/:id/library", h.UserLibrary)
		users.GET("/:id/activities", h.UserActivities)
	}

	ratings := v1.Group("/ratings", optional, limit)
	{
		ratings.POST("", required, h.Rate)
		ratings.GET("/me", required, h.MyRating)
		ratings.GET("/content/:id", h.ContentRating)
		ratings.GET("/user/:id", h.UserRatings)
	}

	reviews := v1.Group("/reviews", optional, limit)
	{
		reviews.GET("/content/:id", h.ContentReviews)
		reviews.POST("", required, h.AddReview)
		reviews.PUT("/:id", required, h.UpdateReview)
		reviews.DELETE("/:id", required, h.DeleteReview)
	}

	library := v1.Group("/user-content", required, limit)
	{
		library.POST("/set-status", h.SetStatus)
		library.POST("/favorite", h.Favorite)
		library.GET("/status", h.LibraryStatus)
		library.GET("/list", h.LibraryList)
		library.DELETE("/:id", h.RemoveFromLibrary)
	}

	lists := v1.Group("/custom-list", required, limit)
	{
		lists.GET("", h.Lists)
		lists.POST("", h.CreateList)
		lists.DELETE("/:id", h.DeleteList)
		lists.POST("/toggle-item", h.ToggleListItem)
	}

	content := v1.Group("/content", limit)
	{
		content.GET("/search", h.SearchContent)
		content.GET("/:id", h.ContentDetails)
	}

	discover := v1.Group("/discover", limit)
	{
		discover.GET("/top-rated", h.TopRated)
		discover.GET("/most-popular", h.MostPopular)
	}

	return r
}

// WithCORS 包装 CORS，预检请求不进入 gin
func WithCORS(next http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	}).Handler(next)
}
