package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// UserRepo stores users.
type UserRepo struct{ coll *mongo.Collection }

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = repository.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	repository.Stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrEmailExists
	}
	return err
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": repository.NormalizeEmail(email)})
	return n > 0, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := findOne(ctx, r.coll, live(bson.M{"email": repository.NormalizeEmail(email)}), &u)
	return u, err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := findOne(ctx, r.coll, live(bson.M{"_id": id}), &u)
	return u, err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return updateLive(ctx, r.coll, id, bson.M{"password": hash})
}

// TokenRepo stores access-token hashes.
type TokenRepo struct{ coll *mongo.Collection }

func (r *TokenRepo) Store(ctx context.Context, t *model.AccessToken) error {
	t.Email = repository.NormalizeEmail(t.Email)
	t.ExpiresAt = t.ExpiresAt.UTC()
	repository.Stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TokenRepo) IsActive(ctx context.Context, email, tokenHash string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, live(bson.M{
		"email":     repository.NormalizeEmail(email),
		"tokenHash": tokenHash,
		"expiresAt": bson.M{"$gt": repository.Now()},
	}))
	return n > 0, err
}

func (r *TokenRepo) RevokeAllForEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		live(bson.M{"email": repository.NormalizeEmail(email)}),
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": repository.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
