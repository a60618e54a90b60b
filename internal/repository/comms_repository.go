package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-review-backend/internal/model"
)

// MessageRepo is the MySQL Messages implementation.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a contact message.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	Stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt, Now())
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (id,email,content,phone_number,subject,deleted,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)",
		m.ID, m.Email, m.Content, m.PhoneNumber, m.Subject, m.Deleted, m.CreatedAt, m.UpdatedAt)
	return err
}

// List returns live messages, newest first.
func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,content,phone_number,subject,deleted,created_at,updated_at FROM messages WHERE "+live("")+
			" ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var (
			m              model.Message
			phone, subject sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Email, &m.Content, &phone, &subject, &m.Deleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			m.PhoneNumber = &phone.String
		}
		if subject.Valid {
			m.Subject = &subject.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SubscriberRepo is the MySQL Subscribers implementation.
type SubscriberRepo struct{ DB *sql.DB }

func NewSubscriberRepo(db *sql.DB) *SubscriberRepo { return &SubscriberRepo{DB: db} }

const subscriberColumns = "id,email,is_active,deleted,created_at,updated_at"

// Create inserts s.  A second row for the same email returns ErrEmailExists.
func (r *SubscriberRepo) Create(ctx context.Context, s *model.Subscriber) error {
	s.Email = NormalizeEmail(s.Email)
	Stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt, Now())
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscribers ("+subscriberColumns+") VALUES (?,?,?,?,?,?)",
		s.ID, s.Email, s.IsActive, s.Deleted, s.CreatedAt, s.UpdatedAt)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// GetByEmail returns the live subscriber for email, active or not.
func (r *SubscriberRepo) GetByEmail(ctx context.Context, email string) (model.Subscriber, error) {
	var s model.Subscriber
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+subscriberColumns+" FROM subscribers WHERE email=? AND "+live("")+" LIMIT 1",
		NormalizeEmail(email)).Scan(&s.ID, &s.Email, &s.IsActive, &s.Deleted, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subscriber{}, ErrNotFound
	}
	return s, err
}

// SetActive flips the mailing-list flag of a live subscriber.
func (r *SubscriberRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE subscribers SET is_active=?, updated_at=? WHERE id=? AND "+live(""),
		active, Now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns live subscribers in sign-up order.
func (r *SubscriberRepo) List(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+subscriberColumns+" FROM subscribers WHERE "+live("")+" ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.IsActive, &s.Deleted, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
