package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/models"
)

type QuizRepository struct {
	client      *mongo.Client
	Col         *mongo.Collection
	QuestionCol *mongo.Collection
}

func NewQuizRepository(client *mongo.Client, db *mongo.Database) *QuizRepository {
	return &QuizRepository{
		client:      client,
		Col:         db.Collection("quizzes"),
		QuestionCol: db.Collection("questions"),
	}
}

// FindMatching looks for an active quiz with the same parameters and question
// count, for the assembler's reuse path. Not finding one is the normal case
// and reported as ErrNotFound.
func (r *QuizRepository) FindMatching(ctx context.Context, categoryID, subcategoryID, difficulty string, questionCount int) (*models.Quiz, error) {
	filter := bson.M{
		"category_id":    categoryID,
		"subcategory_id": subcategoryID,
		"difficulty":     difficulty,
		"question_count": questionCount,
		"is_active":      true,
	}
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, filter).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("no matching quiz")
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CreateWithQuestions inserts the quiz and all its questions in one
// transaction so a partially written quiz is never visible.
func (r *QuizRepository) CreateWithQuestions(ctx context.Context, quiz *models.Quiz, questions []models.Question) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.Col.InsertOne(sc, quiz)
		if err != nil {
			return nil, err
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, apperr.Integrityf("unexpected inserted id type for quiz")
		}
		quiz.ID = oid.Hex()

		docs := make([]interface{}, 0, len(questions))
		for i := range questions {
			questions[i].QuizID = quiz.ID
			questions[i].CreatedAt = now
			docs = append(docs, questions[i])
		}
		if _, err := r.QuestionCol.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
