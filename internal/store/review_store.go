package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reviewpulse/reviewpulse-backend/internal/models"
)

// ReviewStore is the persistence contract for reviews. Reviews are written
// once with all generated fields populated and never updated.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	List(ctx context.Context, skip, limit int64) ([]models.Review, error)
	Count(ctx context.Context) (int64, error)
	CountByRating(ctx context.Context) (map[int]int64, error)
	AverageRating(ctx context.Context) (float64, error)
	SampleByRatingRange(ctx context.Context, minRating, maxRating int, limit int64) ([]models.Review, error)
}

type MongoReviewStore struct {
	collection *mongo.Collection
}

func NewMongoReviewStore(collection *mongo.Collection) *MongoReviewStore {
	return &MongoReviewStore{collection: collection}
}

// Create assigns the id and server-side timestamp, then inserts the review.
func (s *MongoReviewStore) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now().UTC()

	_, err := s.collection.InsertOne(ctx, review)
	return err
}

// List returns reviews newest first with skip/limit paging.
func (s *MongoReviewStore) List(ctx context.Context, skip, limit int64) ([]models.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *MongoReviewStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func (s *MongoReviewStore) CountByRating(ctx context.Context) (map[int]int64, error) {
	counts := make(map[int]int64, 5)
	for rating := 1; rating <= 5; rating++ {
		n, err := s.collection.CountDocuments(ctx, bson.M{"rating": rating})
		if err != nil {
			return nil, err
		}
		counts[rating] = n
	}
	return counts, nil
}

// AverageRating returns 0 for an empty collection.
func (s *MongoReviewStore) AverageRating(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Avg, nil
}

// SampleByRatingRange returns the newest reviews whose rating falls within
// [minRating, maxRating], for the insights prompt.
func (s *MongoReviewStore) SampleByRatingRange(ctx context.Context, minRating, maxRating int, limit int64) ([]models.Review, error) {
	filter := bson.M{"rating": bson.M{"$gte": minRating, "$lte": maxRating}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
