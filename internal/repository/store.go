package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// Users persists accounts.  Reads only return live users.
type Users interface {
	Create(ctx context.Context, u *model.User) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

// Tokens persists issued access tokens.
type Tokens interface {
	Store(ctx context.Context, t *model.AccessToken) error
	IsActive(ctx context.Context, email, tokenHash string) (bool, error)
	RevokeAllForEmail(ctx context.Context, email string) (int64, error)
}

// Reviews persists movie reviews.
type Reviews interface {
	Create(ctx context.Context, r *model.Review) error
	GetByID(ctx context.Context, id string) (model.Review, error)
	ListByMovie(ctx context.Context, movieID string) ([]model.Review, error)
	Save(ctx context.Context, r *model.Review) error
}

// Comments persists review comments.
type Comments interface {
	Create(ctx context.Context, c *model.Comment) error
	ListByReview(ctx context.Context, reviewID string) ([]model.Comment, error)
}

// Movies persists catalog snapshots keyed by catalog id.
type Movies interface {
	Upsert(ctx context.Context, m *model.Movie) error
	GetByCatalogID(ctx context.Context, catalogID string) (model.Movie, error)
}

// Messages persists contact-form submissions.
type Messages interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
}

// Subscribers persists the newsletter mailing list.
type Subscribers interface {
	Create(ctx context.Context, s *model.Subscriber) error
	GetByEmail(ctx context.Context, email string) (model.Subscriber, error)
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]model.Subscriber, error)
}

// Store bundles every repository the handlers need.
type Store struct {
	Users       Users
	Tokens      Tokens
	Reviews     Reviews
	Comments    Comments
	Movies      Movies
	Messages    Messages
	Subscribers Subscribers
}

// Stamp fills a missing id and sets both timestamps for an insert.  Callers
// pass the current time so every write is stamped when it happens.
func Stamp(id *string, createdAt, updatedAt *time.Time, now time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	*createdAt = now
	*updatedAt = now
}

// Now is the clock used by both backends; UTC with microsecond precision so
// values survive a DATETIME(6) round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewMySQLStore wires every MySQL repository onto one pool.
func NewMySQLStore(db *sql.DB) Store {
	return Store{
		Users:       NewUserRepo(db),
		Tokens:      NewTokenRepo(db),
		Reviews:     NewReviewRepo(db),
		Comments:    NewCommentRepo(db),
		Movies:      NewMovieRepo(db),
		Messages:    NewMessageRepo(db),
		Subscribers: NewSubscriberRepo(db),
	}
}
