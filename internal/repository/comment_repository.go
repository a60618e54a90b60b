package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// CommentRepo is the MySQL Comments implementation.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts c.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	Stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt, Now())
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (id,review_id,user_id,content,has_parent,deleted,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)",
		c.ID, c.ReviewID, c.UserID, c.Content, c.HasParent, c.Deleted, c.CreatedAt, c.UpdatedAt)
	return err
}

// ListByReview returns live comments oldest first with authors joined.
func (r *CommentRepo) ListByReview(ctx context.Context, reviewID string) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.review_id, c.user_id, c.content, c.has_parent, c.deleted, c.created_at, c.updated_at,
		       u.id, u.email, u.full_name
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.review_id = ? AND `+live("c")+`
		ORDER BY c.created_at ASC, c.id ASC`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var (
			c      model.Comment
			author nullAuthor
		)
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.UserID, &c.Content, &c.HasParent, &c.Deleted,
			&c.CreatedAt, &c.UpdatedAt, &author.ID, &author.Email, &author.FullName); err != nil {
			return nil, err
		}
		c.User = author.get()
		out = append(out, c)
	}
	return out, rows.Err()
}
