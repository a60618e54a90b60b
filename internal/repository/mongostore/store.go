// Package mongostore implements the repository interfaces on MongoDB.  Each
// entity lives in its own collection with the same field names the JSON API
// uses; ids are UUID strings stored in _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// Collection names.
const (
	usersColl       = "users"
	tokensColl      = "accessTokens"
	reviewsColl     = "reviews"
	commentsColl    = "comments"
	moviesColl      = "movies"
	messagesColl    = "messages"
	subscribersColl = "subscribers"
)

// New wires every Mongo repository onto db.
func New(db *mongo.Database) repository.Store {
	return repository.Store{
		Users:       &UserRepo{coll: db.Collection(usersColl)},
		Tokens:      &TokenRepo{coll: db.Collection(tokensColl)},
		Reviews:     &ReviewRepo{coll: db.Collection(reviewsColl), users: db.Collection(usersColl)},
		Comments:    &CommentRepo{coll: db.Collection(commentsColl), users: db.Collection(usersColl)},
		Movies:      &MovieRepo{coll: db.Collection(moviesColl)},
		Messages:    &MessageRepo{coll: db.Collection(messagesColl)},
		Subscribers: &SubscriberRepo{coll: db.Collection(subscribersColl)},
	}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely
// on.  Index creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	asc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}
	indexes := map[string][]mongo.IndexModel{
		usersColl: {
			{Keys: asc("email"), Options: options.Index().SetUnique(true)},
		},
		tokensColl: {
			{Keys: asc("email", "tokenHash")},
			{Keys: asc("tokenHash"), Options: options.Index().SetUnique(true)},
		},
		reviewsColl: {
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		commentsColl: {
			{Keys: asc("reviewId", "createdAt")},
		},
		moviesColl: {
			{Keys: asc("catalogId"), Options: options.Index().SetUnique(true)},
		},
		subscribersColl: {
			{Keys: asc("email"), Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// live adds the soft-delete predicate to a filter.  Every read goes through it.
func live(filter bson.M) bson.M {
	filter["deleted"] = false
	return filter
}

// findOne decodes the first match of filter into out, mapping a miss to
// repository.ErrNotFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// findAll decodes every match of filter sorted by sort.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// updateLive applies set to the live document id and stamps updatedAt.
func updateLive(ctx context.Context, coll *mongo.Collection, id string, set bson.M) error {
	set["updatedAt"] = repository.Now()
	res, err := coll.UpdateOne(ctx, live(bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// authorsByID loads the live authors of ids in one $in query.
func authorsByID(ctx context.Context, users *mongo.Collection, ids []string) (map[string]*model.Author, error) {
	out := make(map[string]*model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	authors, err := findAll[model.Author](ctx, users, bson.M{"_id": bson.M{"$in": ids}}, bson.D{})
	if err != nil {
		return nil, err
	}
	for i := range authors {
		out[authors[i].ID] = &authors[i]
	}
	return out, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
