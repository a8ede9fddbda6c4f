package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf/internal/cache"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/internal/testutil"
	"github.com/d60-Lab/shelf/pkg/mailer"
	"github.com/d60-Lab/shelf/pkg/token"
)

type fakeProvider struct {
	mu      sync.Mutex
	records map[string]provider.Metadata
	err     error
	lookups int
	queries int
}

func newFakeProvider(records ...provider.Metadata) *fakeProvider {
	p := &fakeProvider{records: map[string]provider.Metadata{}}
	for _, r := range records {
		p.records[r.ID] = r
	}
	return p
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakeProvider) Search(_ context.Context, _ string) ([]provider.Metadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries++
	if p.err != nil {
		return nil, p.err
	}
	out := make([]provider.Metadata, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r)
	}
	return out, nil
}

func (p *fakeProvider) Lookup(_ context.Context, id string) (provider.Metadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups++
	if p.err != nil {
		return provider.Metadata{}, p.err
	}
	r, ok := p.records[id]
	if !ok {
		return provider.Metadata{}, provider.ErrNotFound
	}
	return r, nil
}

type sentMail struct{ to, subject, body string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

var _ mailer.Mailer = (*fakeMailer)(nil)

// env wires every service on one in-memory database.
type env struct {
	db     *gorm.DB
	movies *fakeProvider
	books  *fakeProvider
	mail   *fakeMailer

	activity ActivityService
	content  ContentService
	follow   RelationshipService
	likes    LikeService
	feed     FeedService
	ratings  RatingService
	reviews  ReviewService
	library  LibraryService
	lists    CustomListService
	discover DiscoverService
	users    UserService
	auth     AuthService
	outbox   repository.OutboxRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, _ := testutil.NewRedis(t)

	e := &env{
		db:     db,
		movies: newFakeProvider(provider.Metadata{ID: "42", Type: model.ContentMovie, Title: "Forty Two", ImageURL: "http://img/42.jpg", Genre: "Drama"}),
		books:  newFakeProvider(provider.Metadata{ID: "b1", Type: model.ContentBook, Title: "A Book", Authors: "Someone"}),
		mail:   &fakeMailer{},
	}

	tx := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	e.outbox = repository.NewOutboxRepository(db)

	registry := provider.Registry{model.ContentMovie: e.movies, model.ContentBook: e.books}
	e.content = NewContentService(repository.NewContentRepository(db), registry,
		cache.NewSearchCache(rdb, time.Minute), ContentOptions{LookupTimeout: time.Second, RefreshAfter: time.Hour})
	e.activity = NewActivityService(tx, activityRepo, ratingRepo, e.outbox)
	e.follow = NewRelationshipService(userRepo, followRepo, DefaultPaging)
	e.likes = NewLikeService(activityRepo, repository.NewLikeRepository(db))
	e.feed = NewFeedService(userRepo, feedRepo, DefaultPaging)
	e.ratings = NewRatingService(tx, ratingRepo, e.activity, e.content, DefaultPaging)
	e.reviews = NewReviewService(tx, repository.NewReviewRepository(db), activityRepo, e.activity, e.content, DefaultPaging)
	e.library = NewLibraryService(tx, userRepo, repository.NewUserContentRepository(db), e.activity, e.content)
	e.lists = NewCustomListService(tx, repository.NewCustomListRepository(db), e.content)
	e.discover = NewDiscoverService(repository.NewDiscoverRepository(db))
	e.users = NewUserService(userRepo, followRepo, feedRepo)
	e.auth = NewAuthService(userRepo, token.NewManager("0123456789abcdef0123", "shelf", time.Hour),
		cache.NewTokenStore(rdb, time.Minute), e.mail,
		AuthOptions{ResetURL: "http://app/reset", BcryptCost: 4})
	return e
}

func (e *env) seed(t *testing.T, n int) []model.User {
	t.Helper()
	return testutil.SeedUsers(t, e.db, "user", n)
}

func (e *env) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
