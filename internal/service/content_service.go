package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/internal/cache"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/pkg/apperr"
	"github.com/d60-Lab/shelf/pkg/logger"
)

// Hint is what the client already knows about a content reference.
type Hint struct {
	Title    string
	ImageURL *string
}

// ContentService 外部内容引用缓存
type ContentService interface {
	// Ensure returns the local record for ref, fetching or refreshing it from
	// the provider when needed. It never fails: false means metadata unknown.
	Ensure(ctx context.Context, ref model.ContentRef, hint Hint) (model.Content, bool)
	Search(ctx context.Context, query string, t model.ContentType) ([]provider.Metadata, error)
	Details(ctx context.Context, ref model.ContentRef) (*model.Content, error)
}

type ContentOptions struct {
	LookupTimeout time.Duration
	RefreshAfter  time.Duration
}

type contentService struct {
	repo      repository.ContentRepository
	providers provider.Registry
	search    *cache.SearchCache
	opts      ContentOptions
	now       func() time.Time
}

func NewContentService(repo repository.ContentRepository, providers provider.Registry,
	search *cache.SearchCache, opts ContentOptions) ContentService {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 3 * time.Second
	}
	if opts.RefreshAfter <= 0 {
		opts.RefreshAfter = 7 * 24 * time.Hour
	}
	if search == nil {
		search = cache.NewSearchCache(nil, 0)
	}
	return &contentService{repo: repo, providers: providers, search: search, opts: opts, now: time.Now}
}

func (s *contentService) Ensure(ctx context.Context, ref model.ContentRef, hint Hint) (model.Content, bool) {
	local, err := s.repo.Get(ctx, ref)
	if err != nil && !repository.IsNotFound(err) {
		logger.Warn("content cache read failed", zap.Error(err), zap.String("id", ref.ID), zap.String("type", string(ref.Type)))
		local = nil
	}
	if local != nil && s.now().Sub(local.FetchedAt) < s.opts.RefreshAfter {
		return *local, true
	}

	fetched, err := s.fetch(ctx, ref)
	if err == nil {
		return *fetched, true
	}
	logger.Warn("content lookup failed, degrading",
		zap.Error(err),
		zap.String("id", ref.ID),
		zap.String("type", string(ref.Type)),
		zap.Bool("stale_row", local != nil),
	)
	if local != nil {
		return *local, true
	}
	if strings.TrimSpace(hint.Title) == "" {
		return model.Content{ID: ref.ID, Type: ref.Type}, false
	}
	// zero FetchedAt keeps the hint row eligible for refresh on next reference
	c := model.Content{ID: ref.ID, Type: ref.Type, Title: hint.Title, ImageURL: hint.ImageURL}
	if err := s.repo.InsertIfAbsent(ctx, &c); err != nil {
		logger.Warn("content hint insert failed", zap.Error(err), zap.String("id", ref.ID))
	}
	return c, true
}

// fetch looks ref up upstream under the lookup timeout and upserts the result.
func (s *contentService) fetch(ctx context.Context, ref model.ContentRef) (*model.Content, error) {
	p, ok := s.providers.For(ref.Type)
	if !ok {
		return nil, provider.ErrUpstream
	}
	lctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()
	md, err := p.Lookup(lctx, ref.ID)
	if err != nil {
		return nil, err
	}
	c := contentFromMetadata(ref, md, s.now())
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contentService) Search(ctx context.Context, query string, t model.ContentType) ([]provider.Metadata, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}
	p, ok := s.providers.For(t)
	if !ok {
		return nil, ErrUpstream
	}
	res, err := s.search.GetOrLoad(ctx, t, query, func(ctx context.Context) ([]provider.Metadata, error) {
		lctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
		defer cancel()
		return p.Search(lctx, query)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, ErrUpstream.Message, err)
	}
	return res, nil
}

func (s *contentService) Details(ctx context.Context, ref model.ContentRef) (*model.Content, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	fetched, err := s.fetch(ctx, ref)
	if err == nil {
		return fetched, nil
	}
	local, lerr := s.repo.Get(ctx, ref)
	if lerr == nil {
		logger.Warn("content details served from cache", zap.Error(err), zap.String("id", ref.ID))
		return local, nil
	}
	if errors.Is(err, provider.ErrNotFound) {
		return nil, ErrContentNotFound
	}
	return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, ErrUpstream.Message, err)
}

func contentFromMetadata(ref model.ContentRef, md provider.Metadata, now time.Time) *model.Content {
	details, _ := json.Marshal(model.ContentDetails{
		Genre:          md.Genre,
		Authors:        md.Authors,
		Director:       md.Director,
		ProviderRating: md.Rating,
	})
	title := md.Title
	if title == "" {
		title = ref.ID
	}
	return &model.Content{
		ID:          ref.ID,
		Type:        ref.Type,
		Title:       title,
		Description: strPtr(md.Description),
		Year:        strPtr(md.Year),
		ImageURL:    strPtr(md.ImageURL),
		Details:     details,
		FetchedAt:   now,
	}
}

// describe picks the title and image copied onto activities and library rows.
func describe(c model.Content, known bool, hint Hint) (*string, *string) {
	if !known {
		return strPtr(strings.TrimSpace(hint.Title)), hint.ImageURL
	}
	img := c.ImageURL
	if img == nil {
		img = hint.ImageURL
	}
	return strPtr(c.Title), img
}
