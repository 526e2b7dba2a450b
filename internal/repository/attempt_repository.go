package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/models"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("attempts")}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	res, err := r.Col.InsertOne(ctx, attempt)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = oid.Hex()
	}
	return nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFoundf("attempt %s", id)
	}
	var attempt models.Attempt
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&attempt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("attempt %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Complete persists the terminal state and the scores recomputed from the
// answer set. The attempt must already carry the final values.
func (r *AttemptRepository) Complete(ctx context.Context, attempt *models.Attempt) error {
	objID, err := primitive.ObjectIDFromHex(attempt.ID)
	if err != nil {
		return apperr.NotFoundf("attempt %s", attempt.ID)
	}
	update := bson.M{
		"completed":       true,
		"completed_at":    attempt.CompletedAt,
		"time_taken":      attempt.TimeTaken,
		"score":           attempt.Score,
		"total_questions": attempt.TotalQuestions,
		"percentage":      attempt.Percentage,
		"passed":          attempt.Passed,
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("attempt %s", attempt.ID)
	}
	return nil
}

// FindCompletedByUser returns completed attempts, most recent first.
// limit <= 0 returns all of them.
func (r *AttemptRepository) FindCompletedByUser(ctx context.Context, userID string, limit int) ([]models.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "completed": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attempts []models.Attempt
	for cur.Next(ctx) {
		var a models.Attempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, cur.Err()
}

// UserStats aggregates one user's completed attempts. No attempts yields
// zero values, not an error.
func (r *AttemptRepository) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "completed": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_quizzes":  bson.M{"$sum": 1},
			"passed_quizzes": bson.M{"$sum": bson.M{"$cond": bson.A{"$passed", 1, 0}}},
			"avg_percentage": bson.M{"$avg": "$percentage"},
			"total_score":    bson.M{"$sum": "$score"},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var stats models.UserStats
		if err := cur.Decode(&stats); err != nil {
			return nil, err
		}
		return &stats, nil
	}
	return &models.UserStats{}, cur.Err()
}

func (r *AttemptRepository) groupStats(ctx context.Context, userID, groupField string) ([]models.GroupStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "completed": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":            groupField,
			"total_attempts": bson.M{"$sum": 1},
			"avg_percentage": bson.M{"$avg": "$percentage"},
			"passed":         bson.M{"$sum": bson.M{"$cond": bson.A{"$passed", 1, 0}}},
		}}},
		{{Key: "$sort", Value: bson.M{"avg_percentage": -1}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stats []models.GroupStat
	for cur.Next(ctx) {
		var s models.GroupStat
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, cur.Err()
}

func (r *AttemptRepository) CategoryStats(ctx context.Context, userID string) ([]models.GroupStat, error) {
	return r.groupStats(ctx, userID, "$category_name")
}

func (r *AttemptRepository) DifficultyStats(ctx context.Context, userID string) ([]models.GroupStat, error) {
	return r.groupStats(ctx, userID, "$difficulty")
}

// LeaderboardRows aggregates completed attempts per user for leaderboard
// ranking. userIDs restricts to opted-in users; a zero since means all-time;
// categorySlug narrows to one category when non-empty. Ordering is left to
// the caller.
func (r *AttemptRepository) LeaderboardRows(ctx context.Context, userIDs []string, since time.Time, categorySlug string) ([]models.LeaderboardRow, error) {
	match := bson.M{
		"completed": true,
		"user_id":   bson.M{"$in": userIDs},
	}
	if !since.IsZero() {
		match["completed_at"] = bson.M{"$gte": since}
	}
	if categorySlug != "" {
		match["category_slug"] = categorySlug
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$user_id",
			"total_quizzes":  bson.M{"$sum": 1},
			"avg_percentage": bson.M{"$avg": "$percentage"},
			"total_score":    bson.M{"$sum": "$score"},
			"passed_quizzes": bson.M{"$sum": bson.M{"$cond": bson.A{"$passed", 1, 0}}},
		}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.LeaderboardRow
	for cur.Next(ctx) {
		var row models.LeaderboardRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}
