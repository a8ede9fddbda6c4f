package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

type ToggleInput struct {
	ListID    int64             `json:"listId" binding:"required"`
	ContentID string            `json:"contentId" binding:"required"`
	Type      model.ContentType `json:"type" binding:"required,content_type"`
	Title     string            `json:"title"`
	ImageURL  *string           `json:"imageUrl"`
}

type ToggleResult struct {
	Action  string `json:"action"`
	Present bool   `json:"present"`
}

type CustomListService interface {
	Lists(ctx context.Context, userID int64) ([]model.CustomList, error)
	Create(ctx context.Context, userID int64, name string) (*model.CustomList, error)
	Delete(ctx context.Context, userID, listID int64) error
	// ToggleItem flips membership of the content in one of the user's lists.
	ToggleItem(ctx context.Context, userID int64, in ToggleInput) (ToggleResult, error)
}

type customListService struct {
	tx      repository.TxManager
	lists   repository.CustomListRepository
	content ContentService
}

func NewCustomListService(tx repository.TxManager, lists repository.CustomListRepository, content ContentService) CustomListService {
	return &customListService{tx: tx, lists: lists, content: content}
}

func (s *customListService) Lists(ctx context.Context, userID int64) ([]model.CustomList, error) {
	return s.lists.ListByUser(ctx, userID)
}

func (s *customListService) Create(ctx context.Context, userID int64, name string) (*model.CustomList, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > 100 {
		return nil, ErrListName
	}
	l := &model.CustomList{
		UserID:    userID,
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: time.Now(),
		Items:     []model.CustomListItem{},
	}
	if l.Slug == "" {
		l.Slug = "list"
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *customListService) Delete(ctx context.Context, userID, listID int64) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		return s.lists.WithTx(tx).Delete(ctx, listID)
	})
}

func (s *customListService) ToggleItem(ctx context.Context, userID int64, in ToggleInput) (ToggleResult, error) {
	ref := model.ContentRef{ID: in.ContentID, Type: in.Type}
	if err := validateRef(ref); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.owned(ctx, userID, in.ListID); err != nil {
		return ToggleResult{}, err
	}

	item, err := s.lists.FindItem(ctx, in.ListID, ref)
	if err != nil && !repository.IsNotFound(err) {
		return ToggleResult{}, err
	}
	next := model.ListItemState(item != nil).Toggle()
	if next == model.ItemAbsent {
		if err := s.lists.RemoveItem(ctx, item.ID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Action: next.Action(), Present: bool(next)}, nil
	}

	// 只有加入时才需要元数据，移除不访问 provider
	hint := Hint{Title: in.Title, ImageURL: in.ImageURL}
	c, known := s.content.Ensure(ctx, ref, hint)
	title, img := describe(c, known, hint)
	it := &model.CustomListItem{CustomListID: in.ListID, ContentID: ref.ID, Type: ref.Type, ImageURL: img, AddedAt: time.Now()}
	if title != nil {
		it.Title = *title
	}
	// 并发的首次 toggle 都会走到这里，唯一键冲突时保留已有的那一行
	if err := s.lists.AddItem(ctx, it); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Action: next.Action(), Present: bool(next)}, nil
}

func (s *customListService) owned(ctx context.Context, userID, listID int64) (*model.CustomList, error) {
	l, err := s.lists.GetOwned(ctx, listID, userID)
	if repository.IsNotFound(err) {
		return nil, ErrListNotFound
	}
	return l, err
}
