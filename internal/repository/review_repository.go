package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// ReviewRepo is the MySQL Reviews implementation.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts rv.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	Stamp(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt, Now())
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (id,user_id,movie_id,rating,content,deleted,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)",
		rv.ID, rv.UserID, rv.MovieID, rv.Rating, rv.Content, rv.Deleted, rv.CreatedAt, rv.UpdatedAt)
	return err
}

// GetByID returns a live review without its author.
func (r *ReviewRepo) GetByID(ctx context.Context, id string) (model.Review, error) {
	var rv model.Review
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,movie_id,rating,content,deleted,created_at,updated_at FROM reviews WHERE id=? AND "+live("")+" LIMIT 1",
		id).Scan(&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating, &rv.Content, &rv.Deleted, &rv.CreatedAt, &rv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Review{}, ErrNotFound
	}
	return rv, err
}

// ListByMovie returns the live reviews of movieID, newest first, with the
// author joined.  A review whose author row is gone keeps User nil.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.movie_id, r.rating, r.content, r.deleted, r.created_at, r.updated_at,
		       u.id, u.email, u.full_name
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = ? AND `+live("r")+`
		ORDER BY r.created_at DESC, r.id DESC`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var (
			rv     model.Review
			author nullAuthor
		)
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating, &rv.Content, &rv.Deleted,
			&rv.CreatedAt, &rv.UpdatedAt, &author.ID, &author.Email, &author.FullName); err != nil {
			return nil, err
		}
		rv.User = author.get()
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Save writes the mutable fields of rv and stamps updatedAt.  Setting
// Deleted soft-deletes the row.
func (r *ReviewRepo) Save(ctx context.Context, rv *model.Review) error {
	rv.UpdatedAt = Now()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET rating=?, content=?, deleted=?, updated_at=? WHERE id=? AND "+live(""),
		rv.Rating, rv.Content, rv.Deleted, rv.UpdatedAt, rv.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// nullAuthor scans the nullable side of a LEFT JOIN on users.
type nullAuthor struct {
	ID, Email, FullName sql.NullString
}

func (a nullAuthor) get() *model.Author {
	if !a.ID.Valid {
		return nil
	}
	return &model.Author{ID: a.ID.String, Email: a.Email.String, FullName: a.FullName.String}
}
