package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// MessageRepo stores contact messages.
type MessageRepo struct{ coll *mongo.Collection }

func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	repository.Stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	return findAll[model.Message](ctx, r.coll, live(bson.M{}),
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

// SubscriberRepo stores the mailing list.
type SubscriberRepo struct{ coll *mongo.Collection }

func (r *SubscriberRepo) Create(ctx context.Context, s *model.Subscriber) error {
	s.Email = repository.NormalizeEmail(s.Email)
	repository.Stamp(&s.ID, &s.CreatedAt, &s.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrEmailExists
	}
	return err
}

func (r *SubscriberRepo) GetByEmail(ctx context.Context, email string) (model.Subscriber, error) {
	var s model.Subscriber
	err := findOne(ctx, r.coll, live(bson.M{"email": repository.NormalizeEmail(email)}), &s)
	return s, err
}

func (r *SubscriberRepo) SetActive(ctx context.Context, id string, active bool) error {
	return updateLive(ctx, r.coll, id, bson.M{"isActive": active})
}

func (r *SubscriberRepo) List(ctx context.Context) ([]model.Subscriber, error) {
	return findAll[model.Subscriber](ctx, r.coll, live(bson.M{}),
		bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}
