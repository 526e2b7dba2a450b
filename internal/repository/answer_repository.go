package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/models"
)

type AnswerRepository struct {
	Col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{Col: db.Collection("answers")}
}

// Upsert creates or overwrites the answer for the (attempt, question) pair.
// Selection and correctness are replaced on every save; the unique index
// keeps concurrent saves from producing duplicate rows.
func (r *AnswerRepository) Upsert(ctx context.Context, answer *models.Answer) error {
	filter := bson.M{
		"attempt_id":  answer.AttemptID,
		"question_id": answer.QuestionID,
	}
	update := bson.M{
		"$set": bson.M{
			"selected_answer": answer.SelectedAnswer,
			"is_correct":      answer.IsCorrect,
			"answered_at":     answer.AnsweredAt,
		},
		"$setOnInsert": bson.M{
			"attempt_id":     answer.AttemptID,
			"question_id":    answer.QuestionID,
			"question_order": answer.QuestionOrder,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Lost a race with another save of the same pair; the other write won.
		return apperr.Integrityf("duplicate answer for attempt %s question %s", answer.AttemptID, answer.QuestionID)
	}
	return err
}

func (r *AnswerRepository) Find(ctx context.Context, attemptID, questionID string) (*models.Answer, error) {
	var answer models.Answer
	err := r.Col.FindOne(ctx, bson.M{"attempt_id": attemptID, "question_id": questionID}).Decode(&answer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("answer for question %s", questionID)
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepository) FindByAttempt(ctx context.Context, attemptID string) ([]models.Answer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "question_order", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"attempt_id": attemptID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var answers []models.Answer
	for cur.Next(ctx) {
		var a models.Answer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, cur.Err()
}

// SetExplanation caches a generated explanation on the answer row.
func (r *AnswerRepository) SetExplanation(ctx context.Context, attemptID, questionID, explanation string) error {
	filter := bson.M{"attempt_id": attemptID, "question_id": questionID}
	res, err := r.Col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"ai_explanation": explanation}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("answer for question %s", questionID)
	}
	return nil
}
