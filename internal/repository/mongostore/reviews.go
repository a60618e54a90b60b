package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/movie-review-backend/internal/model"
	"github.com/iliyamo/movie-review-backend/internal/repository"
)

// ReviewRepo stores reviews; users is read to join authors.
type ReviewRepo struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	repository.Stamp(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, rv)
	return err
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (model.Review, error) {
	var rv model.Review
	err := findOne(ctx, r.coll, live(bson.M{"_id": id}), &rv)
	return rv, err
}

// ListByMovie returns live reviews newest first with authors joined.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Review, error) {
	reviews, err := findAll[model.Review](ctx, r.coll, live(bson.M{"movieId": movieID}),
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.UserID)
	}
	authors, err := authorsByID(ctx, r.users, uniq(ids))
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].User = authors[reviews[i].UserID]
	}
	return reviews, nil
}

func (r *ReviewRepo) Save(ctx context.Context, rv *model.Review) error {
	rv.UpdatedAt = repository.Now()
	return updateLive(ctx, r.coll, rv.ID, bson.M{
		"rating":  rv.Rating,
		"content": rv.Content,
		"deleted": rv.Deleted,
	})
}

// CommentRepo stores review comments.
type CommentRepo struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	repository.Stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt, repository.Now())
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

// ListByReview returns live comments oldest first with authors joined.
func (r *CommentRepo) ListByReview(ctx context.Context, reviewID string) ([]model.Comment, error) {
	comments, err := findAll[model.Comment](ctx, r.coll, live(bson.M{"reviewId": reviewID}),
		bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := authorsByID(ctx, r.users, uniq(ids))
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].User = authors[comments[i].UserID]
	}
	return comments, nil
}
