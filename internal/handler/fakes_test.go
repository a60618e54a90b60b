package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/response"
)

// memStore implements every repository interface over maps.
type memStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	tokens      []model.AccessToken
	reviews     map[string]model.Review
	comments    []model.Comment
	movies      map[string]model.Movie
	messages    []model.Message
	subscribers map[string]model.Subscriber
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]model.User{},
		reviews:     map[string]model.Review{},
		movies:      map[string]model.Movie{},
		subscribers: map[string]model.Subscriber{},
	}
}

func (s *memStore) store() repository.Store {
	return repository.Store{
		Users:       memUsers{s},
		Tokens:      memTokens{s},
		Reviews:     memReviews{s},
		Comments:    memComments{s},
		Movies:      memMovies{s},
		Messages:    memMessages{s},
		Subscribers: memSubscribers{s},
	}
}

type memUsers struct{ s *memStore }

func (m memUsers) Create(_ context.Context, u *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, x := range m.s.users {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	repository.Stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt, repository.Now())
	m.s.users[u.ID] = *u
	return nil
}

func (m memUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, x := range m.s.users {
		if x.Email == repository.NormalizeEmail(email) {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, x := range m.s.users {
		if x.Email == repository.NormalizeEmail(email) && !x.Deleted {
			return x, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.Deleted {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	m.s.users[id] = u
	return nil
}

type memTokens struct{ s *memStore }

func (m memTokens) Store(_ context.Context, t *model.AccessToken) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	repository.Stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt, repository.Now())
	m.s.tokens = append(m.s.tokens, *t)
	return nil
}

func (m memTokens) IsActive(_ context.Context, email, hash string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, t := range m.s.tokens {
		if t.Email == email && t.TokenHash == hash && !t.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (m memTokens) RevokeAllForEmail(_ context.Context, email string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for i := range m.s.tokens {
		if m.s.tokens[i].Email == email && !m.s.tokens[i].Deleted {
			m.s.tokens[i].Deleted = true
			n++
		}
	}
	return n, nil
}

type memReviews struct{ s *memStore }

func (m memReviews) Create(_ context.Context, r *model.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	repository.Stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt, repository.Now())
	m.s.reviews[r.ID] = *r
	return nil
}

func (m memReviews) GetByID(_ context.Context, id string) (model.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[id]
	if !ok || r.Deleted {
		return model.Review{}, repository.ErrNotFound
	}
	return r, nil
}

func (m memReviews) ListByMovie(_ context.Context, movieID string) ([]model.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []model.Review{}
	for _, r := range m.s.reviews {
		if r.MovieID == movieID && !r.Deleted {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memReviews) Save(_ context.Context, r *model.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[r.ID]; !ok {
		return repository.ErrNotFound
	}
	r.UpdatedAt = repository.Now()
	m.s.reviews[r.ID] = *r
	return nil
}

type memComments struct{ s *memStore }

func (m memComments) Create(_ context.Context, c *model.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	repository.Stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt, repository.Now())
	m.s.comments = append(m.s.comments, *c)
	return nil
}

func (m memComments) ListByReview(_ context.Context, reviewID string) ([]model.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range m.s.comments {
		if c.ReviewID == reviewID && !c.Deleted {
			out = append(out, c)
		}
	}
	return out, nil
}

type memMovies struct{ s *memStore }

func (m memMovies) Upsert(_ context.Context, mv *model.Movie) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := repository.Now()
	if old, ok := m.s.movies[mv.CatalogID]; ok {
		mv.ID, mv.CreatedAt = old.ID, old.CreatedAt
		mv.UpdatedAt = now
	} else {
		repository.Stamp(&mv.ID, &mv.CreatedAt, &mv.UpdatedAt, now)
	}
	mv.CachedAt = now
	m.s.movies[mv.CatalogID] = *mv
	return nil
}

func (m memMovies) GetByCatalogID(_ context.Context, id string) (model.Movie, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mv, ok := m.s.movies[id]
	if !ok {
		return model.Movie{}, repository.ErrNotFound
	}
	return mv, nil
}

type memMessages struct{ s *memStore }

func (m memMessages) Create(_ context.Context, msg *model.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	repository.Stamp(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt, repository.Now())
	m.s.messages = append(m.s.messages, *msg)
	return nil
}

func (m memMessages) List(context.Context) ([]model.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]model.Message{}, m.s.messages...), nil
}

type memSubscribers struct{ s *memStore }

func (m memSubscribers) Create(_ context.Context, sub *model.Subscriber) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sub.Email = repository.NormalizeEmail(sub.Email)
	for _, x := range m.s.subscribers {
		if x.Email == sub.Email {
			return repository.ErrEmailExists
		}
	}
	repository.Stamp(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt, repository.Now())
	m.s.subscribers[sub.ID] = *sub
	return nil
}

func (m memSubscribers) GetByEmail(_ context.Context, email string) (model.Subscriber, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, x := range m.s.subscribers {
		if x.Email == repository.NormalizeEmail(email) {
			return x, nil
		}
	}
	return model.Subscriber{}, repository.ErrNotFound
}

func (m memSubscribers) SetActive(_ context.Context, id string, active bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sub, ok := m.s.subscribers[id]
	if !ok {
		return repository.ErrNotFound
	}
	sub.IsActive = active
	m.s.subscribers[id] = sub
	return nil
}

func (m memSubscribers) List(context.Context) ([]model.Subscriber, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []model.Subscriber{}
	for _, x := range m.s.subscribers {
		out = append(out, x)
	}
	return out, nil
}

type sentMail struct {
	Recipient, Template string
	Data                map[string]string
}

// recordingNotifier captures notifications synchronously.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Notify(_ context.Context, recipient, template string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{recipient, template, data})
}

func (n *recordingNotifier) to(recipient string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}

// result is a decoded envelope with raw data.
type result struct {
	StatusCode    string          `json:"statusCode"`
	StatusMessage string          `json:"statusMessage"`
	Successful    bool            `json:"successful"`
	Data          json.RawMessage `json:"data"`
}

// call runs h against a request and decodes the envelope.  setup may
// populate path params or context values.
func call(t *testing.T, h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) result {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("transport status = %d, want 200", rec.Code)
	}
	var out result
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if got := rec.Header().Get(response.HeaderStatusCode); got != out.StatusCode {
		t.Errorf("%s header = %q, body statusCode = %q", response.HeaderStatusCode, got, out.StatusCode)
	}
	return out
}

// param sets a single path parameter.
func param(name, value string) func(echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}
