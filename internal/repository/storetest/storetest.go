//go:build integration

// Package storetest checks a repository.Store implementation against the
// behaviour the handlers rely on.  Both backends run the same checks.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// ReviewDeleted reads the deleted flag of a review row directly from the
// backend, bypassing the live filter the repositories apply.
type ReviewDeleted func(ctx context.Context, id string) (bool, error)

// Run executes every check against s.  s must be empty.
func Run(t *testing.T, s repository.Store, reviewDeleted ReviewDeleted) {
	t.Run("users", func(t *testing.T) { users(t, s) })
	t.Run("tokens", func(t *testing.T) { tokens(t, s) })
	t.Run("reviews", func(t *testing.T) { reviews(t, s, reviewDeleted) })
	t.Run("movies", func(t *testing.T) { movies(t, s) })
	t.Run("comms", func(t *testing.T) { comms(t, s) })
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func users(t *testing.T, s repository.Store) {
	u := model.User{Email: " Ada@Example.com ", FullName: "Ada", PasswordHash: "h", Role: model.RoleUser, IsActive: true}
	if err := s.Users.Create(ctx(t), &u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.Email != "ada@example.com" || u.CreatedAt.IsZero() {
		t.Errorf("created = %+v", u)
	}

	dup := model.User{Email: "ada@example.com", FullName: "Other", PasswordHash: "h", Role: model.RoleUser}
	if err := s.Users.Create(ctx(t), &dup); !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("duplicate create = %v, want ErrEmailExists", err)
	}
	if taken, err := s.Users.EmailTaken(ctx(t), "ADA@example.com"); err != nil || !taken {
		t.Errorf("EmailTaken = %v, %v", taken, err)
	}

	got, err := s.Users.GetByEmail(ctx(t), "ada@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
	if _, err := s.Users.GetByID(ctx(t), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID(missing) = %v", err)
	}
	if err := s.Users.UpdatePassword(ctx(t), u.ID, "h2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if got, _ := s.Users.GetByID(ctx(t), u.ID); got.PasswordHash != "h2" {
		t.Errorf("hash = %q", got.PasswordHash)
	}
}

func tokens(t *testing.T, s repository.Store) {
	live := model.AccessToken{Email: "tok@example.com", TokenHash: "a", ExpiresAt: time.Now().Add(time.Hour)}
	expired := model.AccessToken{Email: "tok@example.com", TokenHash: "b", ExpiresAt: time.Now().Add(-time.Minute)}
	for _, tk := range []*model.AccessToken{&live, &expired} {
		if err := s.Tokens.Store(ctx(t), tk); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if ok, _ := s.Tokens.IsActive(ctx(t), "tok@example.com", "a"); !ok {
		t.Error("live token inactive")
	}
	if ok, _ := s.Tokens.IsActive(ctx(t), "tok@example.com", "b"); ok {
		t.Error("expired token active")
	}
	if ok, _ := s.Tokens.IsActive(ctx(t), "other@example.com", "a"); ok {
		t.Error("token active for another email")
	}
	n, err := s.Tokens.RevokeAllForEmail(ctx(t), "tok@example.com")
	if err != nil || n != 2 {
		t.Errorf("revoked = %d, %v", n, err)
	}
	if ok, _ := s.Tokens.IsActive(ctx(t), "tok@example.com", "a"); ok {
		t.Error("token active after revoke")
	}
}

func reviews(t *testing.T, s repository.Store, reviewDeleted ReviewDeleted) {
	author := model.User{Email: "rev@example.com", FullName: "Rev", PasswordHash: "h", Role: model.RoleUser, IsActive: true}
	if err := s.Users.Create(ctx(t), &author); err != nil {
		t.Fatal(err)
	}

	if list, err := s.Reviews.ListByMovie(ctx(t), "550"); err != nil || list == nil || len(list) != 0 {
		t.Errorf("empty list = %#v, %v", list, err)
	}

	first := model.Review{UserID: author.ID, MovieID: "550", Rating: 4, Content: "first"}
	if err := s.Reviews.Create(ctx(t), &first); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	second := model.Review{UserID: author.ID, MovieID: "550", Rating: 2, Content: "second"}
	if err := s.Reviews.Create(ctx(t), &second); err != nil {
		t.Fatal(err)
	}

	list, err := s.Reviews.ListByMovie(ctx(t), "550")
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %v, %v", list, err)
	}
	if list[0].ID != second.ID {
		t.Error("reviews not newest first")
	}
	if list[0].User == nil || list[0].User.FullName != "Rev" {
		t.Errorf("author not joined: %+v", list[0].User)
	}

	first.Deleted = true
	if err := s.Reviews.Save(ctx(t), &first); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reviews.GetByID(ctx(t), first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("deleted review readable: %v", err)
	}
	if deleted, err := reviewDeleted(ctx(t), first.ID); err != nil || !deleted {
		t.Errorf("deleted review row: deleted=%v err=%v, want row kept with deleted set", deleted, err)
	}
	if list, err := s.Reviews.ListByMovie(ctx(t), "550"); err != nil || len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("list after delete = %+v, %v", list, err)
	}

	c1 := model.Comment{ReviewID: second.ID, UserID: author.ID, Content: "one"}
	if err := s.Comments.Create(ctx(t), &c1); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	c2 := model.Comment{ReviewID: second.ID, UserID: author.ID, Content: "two"}
	if err := s.Comments.Create(ctx(t), &c2); err != nil {
		t.Fatal(err)
	}
	comments, err := s.Comments.ListByReview(ctx(t), second.ID)
	if err != nil || len(comments) != 2 || comments[0].ID != c1.ID {
		t.Errorf("comments = %+v, %v", comments, err)
	}
	if comments[0].User == nil || comments[0].User.Email != "rev@example.com" {
		t.Errorf("comment author not joined")
	}
}

func movies(t *testing.T, s repository.Store) {
	m := model.Movie{CatalogID: "550", Title: "Fight Club", Genres: []string{"Drama"}}
	if err := s.Movies.Upsert(ctx(t), &m); err != nil {
		t.Fatal(err)
	}
	again := model.Movie{CatalogID: "550", Title: "Fight Club (1999)", Genres: []string{"Drama", "Thriller"}}
	if err := s.Movies.Upsert(ctx(t), &again); err != nil {
		t.Fatal(err)
	}
	if again.ID != m.ID {
		t.Errorf("upsert changed id: %s -> %s", m.ID, again.ID)
	}
	got, err := s.Movies.GetByCatalogID(ctx(t), "550")
	if err != nil || got.Title != "Fight Club (1999)" || len(got.Genres) != 2 {
		t.Errorf("stored = %+v, %v", got, err)
	}
}

func comms(t *testing.T, s repository.Store) {
	subject := "Hi"
	msg := model.Message{Email: "c@example.com", Content: "hello", Subject: &subject}
	if err := s.Messages.Create(ctx(t), &msg); err != nil {
		t.Fatal(err)
	}
	msgs, err := s.Messages.List(ctx(t))
	if err != nil || len(msgs) != 1 || msgs[0].PhoneNumber != nil || *msgs[0].Subject != "Hi" {
		t.Errorf("messages = %+v, %v", msgs, err)
	}

	sub := model.Subscriber{Email: "c@example.com", IsActive: true}
	if err := s.Subscribers.Create(ctx(t), &sub); err != nil {
		t.Fatal(err)
	}
	dup := model.Subscriber{Email: "C@example.com", IsActive: true}
	if err := s.Subscribers.Create(ctx(t), &dup); !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("duplicate subscriber = %v", err)
	}
	if err := s.Subscribers.SetActive(ctx(t), sub.ID, false); err != nil {
		t.Fatal(err)
	}
	got, err := s.Subscribers.GetByEmail(ctx(t), "c@example.com")
	if err != nil || got.IsActive {
		t.Errorf("after deactivate = %+v, %v", got, err)
	}
	if list, _ := s.Subscribers.List(ctx(t)); len(list) != 1 {
		t.Errorf("subscribers = %d", len(list))
	}
}
