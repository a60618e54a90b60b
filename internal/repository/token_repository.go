package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// TokenRepo persists issued access tokens by their SHA-256 hash.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a token row.
func (r *TokenRepo) Store(ctx context.Context, t *model.AccessToken) error {
	t.Email = NormalizeEmail(t.Email)
	Stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt, Now())
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (id,email,token_hash,expires_at,deleted,created_at,updated_at) VALUES (?,?,?,?,?,?,?)",
		t.ID, t.Email, t.TokenHash, t.ExpiresAt.UTC(), t.Deleted, t.CreatedAt, t.UpdatedAt)
	return err
}

// IsActive reports whether a live, unexpired row matches email and hash.
func (r *TokenRepo) IsActive(ctx context.Context, email, tokenHash string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM access_tokens WHERE email=? AND token_hash=? AND expires_at > ? AND "+live(""),
		NormalizeEmail(email), tokenHash, Now()).Scan(&n)
	return n > 0, err
}

// RevokeAllForEmail soft-deletes every live token of email and returns how
// many rows changed.
func (r *TokenRepo) RevokeAllForEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE access_tokens SET deleted=TRUE, updated_at=? WHERE email=? AND "+live(""),
		Now(), NormalizeEmail(email))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
