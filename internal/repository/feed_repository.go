package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
)

// FeedScope selects which authors' activities are visible.
type FeedScope struct {
	// ViewerID annotates likedByUser; 0 means anonymous.
	ViewerID int64
	// AuthorID restricts the feed to one author (profile timelines).
	// When zero the scope is the viewer plus everyone the viewer follows.
	AuthorID int64
}

type FeedRepository interface {
	Page(ctx context.Context, scope FeedScope, page, pageSize int) ([]model.FeedItem, int64, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

type feedRow struct {
	ID          int64
	ActionType  model.ActionType
	CreatedAt   time.Time
	UserID      int64
	Username    string
	AvatarURL   *string
	ContentID   string
	ContentType model.ContentType
	Title       *string
	ImageURL    *string
	Score       *int
	Status      *string
	Snippet     *string
	LikeCount   int64
	Liked       int64
}

func (r *feedRepository) scoped(ctx context.Context, scope FeedScope) *gorm.DB {
	q := r.db.WithContext(ctx).Table("activities a")
	if scope.AuthorID != 0 {
		return q.Where("a.user_id = ?", scope.AuthorID)
	}
	return q.Where("a.user_id = ? OR a.user_id IN (SELECT f.followed_id FROM follows f WHERE f.follower_id = ?)",
		scope.ViewerID, scope.ViewerID)
}

// Page returns one page ordered by (created_at, id) descending, plus the
// size of the whole scoped set. Like counts and the viewer's like state are
// correlated subqueries so a page costs a single round trip.
func (r *feedRepository) Page(ctx context.Context, scope FeedScope, page, pageSize int) ([]model.FeedItem, int64, error) {
	var total int64
	if err := r.scoped(ctx, scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []model.FeedItem{}
	offset, limit := offsetLimit(page, pageSize)
	if total == 0 || int64(offset) >= total {
		return items, total, nil
	}

	var rows []feedRow
	err := r.scoped(ctx, scope).
		Select(`a.id, a.action_type, a.created_at, a.user_id, u.username, u.avatar_url,
			a.content_id, a.content_type, a.title, a.image_url, a.score, a.status, a.snippet,
			(SELECT COUNT(*) FROM activity_likes l WHERE l.activity_id = a.id) AS like_count,
			(SELECT COUNT(*) FROM activity_likes l WHERE l.activity_id = a.id AND l.user_id = ?) AS liked`,
			scope.ViewerID).
		Joins("JOIN users u ON u.id = a.user_id").
		Order("a.created_at DESC, a.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	for _, row := range rows {
		items = append(items, model.FeedItem{
			ID:         row.ID,
			ActionType: row.ActionType,
			CreatedAt:  row.CreatedAt,
			User:       model.Author{ID: row.UserID, Username: row.Username, AvatarURL: row.AvatarURL},
			Content: model.ContentSummary{
				ID:       row.ContentID,
				Type:     row.ContentType,
				Title:    row.Title,
				ImageURL: row.ImageURL,
			},
			Score:       row.Score,
			Status:      row.Status,
			Snippet:     row.Snippet,
			LikeCount:   row.LikeCount,
			LikedByUser: row.Liked > 0,
		})
	}
	return items, total, nil
}
