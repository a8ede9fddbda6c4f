package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

// Services groups everything the HTTP layer calls.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Follow   service.RelationshipService
	Feed     service.FeedService
	Likes    service.LikeService
	Ratings  service.RatingService
	Reviews  service.ReviewService
	Library  service.LibraryService
	Lists    service.CustomListService
	Content  service.ContentService
	Discover service.DiscoverService
}

// Handler HTTP 处理器
type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	relService      service.RelationshipService
	feedService     service.FeedService
	likeService     service.LikeService
	ratingService   service.RatingService
	reviewService   service.ReviewService
	libraryService  service.LibraryService
	listService     service.CustomListService
	contentService  service.ContentService
	discoverService service.DiscoverService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		authService:     s.Auth,
		userService:     s.Users,
		relService:      s.Follow,
		feedService:     s.Feed,
		likeService:     s.Likes,
		ratingService:   s.Ratings,
		reviewService:   s.Reviews,
		libraryService:  s.Library,
		listService:     s.Lists,
		contentService:  s.Content,
		discoverService: s.Discover,
	}
}

// queryInt parses an optional integer; malformed values read as 0 and are clamped by the service.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func pagination(c *gin.Context) (int, int) {
	return queryInt(c, "page"), queryInt(c, "pageSize")
}

// pathID parses a positive int64 path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+key)
		return 0, false
	}
	return id, true
}

func contentRef(c *gin.Context, id string) model.ContentRef {
	return model.ContentRef{ID: id, Type: model.ContentType(c.Query("type"))}
}
