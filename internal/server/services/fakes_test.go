package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/logging"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/cards"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/comments"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories ---

type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	cards    map[int64]*models.Card
	comments map[int64]*models.Comment

	userLookupErr error
	locked        []int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		cards:    map[int64]*models.Card{},
		comments: map[int64]*models.Comment{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeManager struct {
	store *memStore
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository              { return &memUsers{m.store} }
func (m *fakeManager) Cards(dbx.DBTX) cards.Repository              { return &memCards{m.store} }
func (m *fakeManager) Comments(dbx.DBTX) comments.Repository        { return &memComments{m.store} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, col := range []struct{ name, value string }{{"name", u.Name}, {"email", u.Email}, {"password", u.Password}} {
		if col.value == "" {
			return nil, &common.ConflictError{Kind: common.NotNull, Field: col.name}
		}
	}
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return nil, &common.ConflictError{Kind: common.UniqueViolation, Field: "email"}
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = time.Now()
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userLookupErr != nil {
		return nil, r.s.userLookupErr
	}
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userLookupErr != nil {
		return nil, r.s.userLookupErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return &common.NotFoundError{Entity: "User"}
	}
	u.IsAdmin = isAdmin
	return nil
}

func (r *memUsers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return &common.NotFoundError{Entity: "User"}
	}
	delete(r.s.users, id)
	for cid, c := range r.s.cards {
		if c.UserID == id {
			r.s.deleteCard(cid)
		}
	}
	for mid, m := range r.s.comments {
		if m.UserID == id {
			delete(r.s.comments, mid)
		}
	}
	return nil
}

func (s *memStore) deleteCard(id int64) {
	delete(s.cards, id)
	for mid, m := range s.comments {
		if m.CardID == id {
			delete(s.comments, mid)
		}
	}
}

func (s *memStore) summary(userID int64) *models.UserSummary {
	u := s.users[userID]
	return &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

type memCards struct{ s *memStore }

func (r *memCards) Create(_ context.Context, c *models.Card) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.Title == "" {
		return nil, &common.ConflictError{Kind: common.NotNull, Field: "title"}
	}
	if _, ok := r.s.users[c.UserID]; !ok {
		return nil, &common.NotFoundError{Entity: "User"}
	}
	c.ID = r.s.id()
	c.Date = time.Now().Truncate(24 * time.Hour)
	cp := *c
	r.s.cards[c.ID] = &cp
	return c, nil
}

func (r *memCards) List(context.Context) ([]*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Card, 0, len(r.s.cards))
	for id := r.s.nextID; id > 0; id-- {
		if c, ok := r.s.cards[id]; ok {
			cp := *c
			cp.User = r.s.summary(c.UserID)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCards) GetByID(_ context.Context, id int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "Card", ID: id}
	}
	cp := *c
	cp.User = r.s.summary(c.UserID)
	return &cp, nil
}

func (r *memCards) GetForUpdate(_ context.Context, id int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "Card", ID: id}
	}
	r.s.locked = append(r.s.locked, id)
	cp := *c
	return &cp, nil
}

func (r *memCards) Update(_ context.Context, id int64, p models.CardPatch) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "Card", ID: id}
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.Status != nil {
		c.Status = p.Status
	}
	if p.Priority != nil {
		c.Priority = p.Priority
	}
	cp := *c
	return &cp, nil
}

func (r *memCards) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cards[id]; !ok {
		return &common.NotFoundError{Entity: "Card", ID: id}
	}
	r.s.deleteCard(id)
	return nil
}

type memComments struct{ s *memStore }

func (r *memComments) Create(_ context.Context, m *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.Message == "" {
		return nil, &common.ConflictError{Kind: common.NotNull, Field: "message"}
	}
	if _, ok := r.s.cards[m.CardID]; !ok {
		return nil, &common.NotFoundError{Entity: "Card"}
	}
	m.ID = r.s.id()
	m.Date = time.Now()
	cp := *m
	r.s.comments[m.ID] = &cp
	return m, nil
}

func (r *memComments) ListByCard(_ context.Context, cardID int64) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Comment, 0)
	for id := int64(1); id <= r.s.nextID; id++ {
		if m, ok := r.s.comments[id]; ok && m.CardID == cardID {
			cp := *m
			cp.User = r.s.summary(m.UserID)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memComments) GetByID(_ context.Context, cardID, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.comments[id]
	if !ok || m.CardID != cardID {
		return nil, &common.NotFoundError{Entity: "Comment", ID: id}
	}
	cp := *m
	cp.User = r.s.summary(m.UserID)
	return &cp, nil
}

func (r *memComments) GetForUpdate(ctx context.Context, cardID, id int64) (*models.Comment, error) {
	m, err := r.GetByID(ctx, cardID, id)
	if err != nil {
		return nil, err
	}
	m.User = nil
	return m, nil
}

func (r *memComments) Update(_ context.Context, id int64, message string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if message == "" {
		return nil, &common.ConflictError{Kind: common.NotNull, Field: "message"}
	}
	m, ok := r.s.comments[id]
	if !ok {
		return nil, &common.NotFoundError{Entity: "Comment", ID: id}
	}
	m.Message = message
	cp := *m
	return &cp, nil
}

func (r *memComments) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return &common.NotFoundError{Entity: "Comment", ID: id}
	}
	delete(r.s.comments, id)
	return nil
}

// --- hasher ---

type plainHasher struct {
	hashed  int
	checked int
}

func (h *plainHasher) Hash(p string) (string, error) {
	h.hashed++
	return "hashed:" + p, nil
}

func (h *plainHasher) Check(p, digest string) bool {
	h.checked++
	return p != "" && digest == "hashed:"+p
}

// --- environment ---

type testEnv struct {
	mock     sqlmock.Sqlmock
	store    *memStore
	hasher   *plainHasher
	cfg      *config.Config
	users    *UserService
	guard    *Guard
	cards    *CardService
	comments *CommentService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	m := &fakeManager{store: store}
	cfg := &config.Config{SecretKey: "test-secret", TokenValidityDuration: time.Hour}
	h := &plainHasher{}
	g := NewGuard(db, m, cfg, logging.Nop())

	return &testEnv{
		mock:     mock,
		store:    store,
		hasher:   h,
		cfg:      cfg,
		users:    NewUserService(db, m, h, cfg),
		guard:    g,
		cards:    NewCardService(db, m, g),
		comments: NewCommentService(db, m, g),
	}
}

// seedUser inserts a user directly into the store.
func (e *testEnv) seedUser(name string, admin bool) *models.User {
	u := &models.User{Name: name, Email: name + "@example.com", Password: "hashed:secret", IsAdmin: admin}
	_, _ = (&memUsers{e.store}).Create(context.Background(), u)
	return u
}

func (e *testEnv) seedCard(owner *models.User, title string) *models.Card {
	c, _ := (&memCards{e.store}).Create(context.Background(), &models.Card{Title: title, UserID: owner.ID})
	return c
}

func (e *testEnv) seedComment(author *models.User, card *models.Card, msg string) *models.Comment {
	m, _ := (&memComments{e.store}).Create(context.Background(), &models.Comment{Message: msg, CardID: card.ID, UserID: author.ID})
	return m
}

func (e *testEnv) expectCommit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) expectRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func strPtr(s string) *string { return &s }
