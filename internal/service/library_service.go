package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/repository"
)

type StatusInput struct {
	ContentID string              `json:"contentId" binding:"required"`
	Type      model.ContentType   `json:"type" binding:"required,content_type"`
	Status    model.LibraryStatus `json:"status" binding:"required,library_status"`
	Title     string              `json:"title"`
	ImageURL  *string             `json:"imageUrl"`
}

type FavoriteInput struct {
	ContentID string            `json:"contentId" binding:"required"`
	Type      model.ContentType `json:"type" binding:"required,content_type"`
	Title     string            `json:"title"`
	ImageURL  *string           `json:"imageUrl"`
}

// LibraryService 个人书影库（看过/想看/读过/想读）
type LibraryService interface {
	SetStatus(ctx context.Context, userID int64, in StatusInput) (*model.UserContent, error)
	Favorite(ctx context.Context, userID int64, in FavoriteInput) (*model.Activity, error)
	// Status returns "" when ref is not in the user's library.
	Status(ctx context.Context, userID int64, ref model.ContentRef) (model.LibraryStatus, error)
	List(ctx context.Context, userID int64, status model.LibraryStatus) ([]model.UserContent, error)
	Library(ctx context.Context, userID int64) (*model.Library, error)
	Remove(ctx context.Context, userID, entryID int64) error
}

type libraryService struct {
	tx       repository.TxManager
	users    repository.UserRepository
	entries  repository.UserContentRepository
	activity ActivityService
	content  ContentService
}

func NewLibraryService(tx repository.TxManager, users repository.UserRepository, entries repository.UserContentRepository,
	activity ActivityService, content ContentService) LibraryService {
	return &libraryService{tx: tx, users: users, entries: entries, activity: activity, content: content}
}

func (s *libraryService) SetStatus(ctx context.Context, userID int64, in StatusInput) (*model.UserContent, error) {
	ref := model.ContentRef{ID: in.ContentID, Type: in.Type}
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if !in.Status.ValidFor(ref.Type) {
		return nil, ErrInvalidStatus
	}

	hint := Hint{Title: in.Title, ImageURL: in.ImageURL}
	c, known := s.content.Ensure(ctx, ref, hint)
	title, img := describe(c, known, hint)

	now := time.Now()
	uc := &model.UserContent{
		UserID: userID, ContentID: ref.ID, Type: ref.Type,
		ImageURL: img, Status: in.Status, SavedAt: now, UpdatedAt: now,
	}
	if title != nil {
		uc.Title = *title
	}
	status := string(in.Status)
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.entries.WithTx(tx).Upsert(ctx, uc); err != nil {
			return err
		}
		_, err := s.activity.Record(ctx, tx, Entry{
			UserID: userID, Action: model.ActionStatus, Ref: ref,
			Title: title, ImageURL: img, Status: &status,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc, nil
}

func (s *libraryService) Favorite(ctx context.Context, userID int64, in FavoriteInput) (*model.Activity, error) {
	ref := model.ContentRef{ID: in.ContentID, Type: in.Type}
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	hint := Hint{Title: in.Title, ImageURL: in.ImageURL}
	c, known := s.content.Ensure(ctx, ref, hint)
	title, img := describe(c, known, hint)
	return s.activity.Record(ctx, nil, Entry{
		UserID: userID, Action: model.ActionFavorite, Ref: ref, Title: title, ImageURL: img,
	})
}

func (s *libraryService) Status(ctx context.Context, userID int64, ref model.ContentRef) (model.LibraryStatus, error) {
	if err := validateRef(ref); err != nil {
		return "", err
	}
	uc, err := s.entries.Get(ctx, userID, ref)
	if repository.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return uc.Status, nil
}

func (s *libraryService) List(ctx context.Context, userID int64, status model.LibraryStatus) ([]model.UserContent, error) {
	if status != "" && !status.ValidFor(model.ContentMovie) && !status.ValidFor(model.ContentBook) {
		return nil, ErrInvalidStatus
	}
	return s.entries.List(ctx, userID, status)
}

func (s *libraryService) Library(ctx context.Context, userID int64) (*model.Library, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	all, err := s.entries.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	lib := &model.Library{
		Watched: []model.UserContent{},
		ToWatch: []model.UserContent{},
		Read:    []model.UserContent{},
		ToRead:  []model.UserContent{},
	}
	for _, uc := range all {
		switch uc.Status {
		case model.StatusWatched:
			lib.Watched = append(lib.Watched, uc)
		case model.StatusToWatch:
			lib.ToWatch = append(lib.ToWatch, uc)
		case model.StatusRead:
			lib.Read = append(lib.Read, uc)
		case model.StatusToRead:
			lib.ToRead = append(lib.ToRead, uc)
		}
	}
	return lib, nil
}

func (s *libraryService) Remove(ctx context.Context, userID, entryID int64) error {
	ok, err := s.entries.DeleteOwned(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}
