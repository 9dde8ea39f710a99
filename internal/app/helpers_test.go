package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"miniblog/internal/model"
	"miniblog/internal/platform/sqlite"
	"miniblog/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ActivityLog
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ActivityLog) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, 0, len(p.events))
	for _, event := range p.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]uint
	ttls     map[string]time.Duration
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]uint{}, ttls: map[string]time.Duration{}}
}

func (s *memorySessionStore) Save(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	s.ttls[sessionID] = ttl
	return nil
}

func (s *memorySessionStore) Lookup(_ context.Context, sessionID string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	return userID, ok, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok, nil
}

type fakeCategoryCache struct {
	categories  []model.Category
	hit         bool
	getErr      error
	sets        int
	invalidated int
}

func (c *fakeCategoryCache) GetAll(context.Context) ([]model.Category, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.categories, c.hit, nil
}

func (c *fakeCategoryCache) SetAll(_ context.Context, categories []model.Category) error {
	c.categories = categories
	c.hit = true
	c.sets++
	return nil
}

func (c *fakeCategoryCache) Invalidate(context.Context) error {
	c.categories = nil
	c.hit = false
	c.invalidated++
	return nil
}

type testEnv struct {
	db        *gorm.DB
	publisher *recordingPublisher
	sessions  *memorySessionStore
	cache     *fakeCategoryCache
	identity  *IdentityService
	taxonomy  *TaxonomyService
	content   *ContentService
	session   *SessionService
	clock     *stepClock
}

// stepClock returns strictly increasing times so creation order is stable.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(time.Second)
	return now
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.NewMemory(context.Background(), t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		db:        db,
		publisher: &recordingPublisher{},
		sessions:  newMemorySessionStore(),
		cache:     &fakeCategoryCache{},
		clock:     &stepClock{next: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	tx := repository.NewTransactor(db)
	env.identity = NewIdentityService(tx, repository.NewUserRepository(db), env.publisher, bcrypt.MinCost)
	env.taxonomy = NewTaxonomyService(repository.NewCategoryRepository(db), env.cache)
	env.content = NewContentService(tx, repository.NewPostRepository(db), repository.NewCommentRepository(db), env.publisher, env.clock.Now)
	env.session = NewSessionService(env.identity, env.sessions, "test-secret", 0)
	return env
}

func (e *testEnv) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := e.identity.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) category(t *testing.T, name string) model.Category {
	t.Helper()
	if _, err := e.taxonomy.Ensure(context.Background(), name); err != nil {
		t.Fatalf("ensure category %s: %v", name, err)
	}
	categories, err := repository.NewCategoryRepository(e.db).GetByName(name)
	if err != nil || categories == nil {
		t.Fatalf("load category %s: %v", name, err)
	}
	return *categories
}

func (e *testEnv) post(t *testing.T, authorID uint, title string, categoryIDs ...uint) *model.Post {
	t.Helper()
	post, err := e.content.CreatePost(context.Background(), CreatePostInput{
		AuthorID:    authorID,
		Title:       title,
		Body:        "body of " + title,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
