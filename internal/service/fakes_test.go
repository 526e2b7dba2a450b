package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/models"
)

// In-memory store fakes shared by the service tests.

type fakeCategoryStore struct {
	categories []models.Category
}

func (f *fakeCategoryStore) FindAllActive(_ context.Context) ([]models.Category, error) {
	var active []models.Category
	for _, c := range f.categories {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug && f.categories[i].IsActive {
			return &f.categories[i], nil
		}
	}
	return nil, apperr.NotFoundf("category %s not found", slug)
}

func (f *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	category.ID = fmt.Sprintf("cat-%d", len(f.categories)+1)
	f.categories = append(f.categories, *category)
	return nil
}

func (f *fakeCategoryStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.categories)), nil
}

type fakeSubcategoryStore struct {
	subcategories []models.Subcategory
}

func (f *fakeSubcategoryStore) FindByCategory(_ context.Context, categoryID string) ([]models.Subcategory, error) {
	var matched []models.Subcategory
	for _, s := range f.subcategories {
		if s.CategoryID == categoryID && s.IsActive {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func (f *fakeSubcategoryStore) FindBySlug(_ context.Context, categoryID, slug string) (*models.Subcategory, error) {
	for i := range f.subcategories {
		if f.subcategories[i].CategoryID == categoryID && f.subcategories[i].Slug == slug {
			return &f.subcategories[i], nil
		}
	}
	return nil, apperr.NotFoundf("subcategory %s not found", slug)
}

func (f *fakeSubcategoryStore) Create(_ context.Context, subcategory *models.Subcategory) error {
	subcategory.ID = fmt.Sprintf("sub-%d", len(f.subcategories)+1)
	f.subcategories = append(f.subcategories, *subcategory)
	return nil
}

type fakeQuizStore struct {
	quizzes   map[string]*models.Quiz
	questions map[string][]models.Question
	nextID    int
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{
		quizzes:   make(map[string]*models.Quiz),
		questions: make(map[string][]models.Question),
	}
}

func (f *fakeQuizStore) FindMatching(_ context.Context, categoryID, subcategoryID, difficulty string, questionCount int) (*models.Quiz, error) {
	for _, quiz := range f.quizzes {
		if quiz.IsActive &&
			quiz.CategoryID == categoryID &&
			quiz.SubcategoryID == subcategoryID &&
			quiz.Difficulty == difficulty &&
			quiz.QuestionCount == questionCount {
			return quiz, nil
		}
	}
	return nil, apperr.NotFoundf("no matching quiz")
}

func (f *fakeQuizStore) CreateWithQuestions(_ context.Context, quiz *models.Quiz, questions []models.Question) error {
	f.nextID++
	quiz.ID = fmt.Sprintf("quiz-%d", f.nextID)
	f.quizzes[quiz.ID] = quiz
	for i := range questions {
		questions[i].QuizID = quiz.ID
		questions[i].ID = fmt.Sprintf("%s-q%d", quiz.ID, i+1)
	}
	f.questions[quiz.ID] = questions
	return nil
}

type fakeAttemptStore struct {
	attempts map[string]*models.Attempt
	nextID   int
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: make(map[string]*models.Attempt)}
}

func (f *fakeAttemptStore) Create(_ context.Context, attempt *models.Attempt) error {
	f.nextID++
	attempt.ID = fmt.Sprintf("attempt-%d", f.nextID)
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeAttemptStore) FindByID(_ context.Context, id string) (*models.Attempt, error) {
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, apperr.NotFoundf("attempt %s not found", id)
	}
	copied := *attempt
	return &copied, nil
}

func (f *fakeAttemptStore) Complete(_ context.Context, attempt *models.Attempt) error {
	if _, ok := f.attempts[attempt.ID]; !ok {
		return apperr.NotFoundf("attempt %s not found", attempt.ID)
	}
	copied := *attempt
	f.attempts[attempt.ID] = &copied
	return nil
}

type fakeAnswerStore struct {
	answers map[string]*models.Answer // keyed attemptID/questionID
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{answers: make(map[string]*models.Answer)}
}

func answerKey(attemptID, questionID string) string {
	return attemptID + "/" + questionID
}

func (f *fakeAnswerStore) Upsert(_ context.Context, answer *models.Answer) error {
	key := answerKey(answer.AttemptID, answer.QuestionID)
	if existing, ok := f.answers[key]; ok {
		existing.SelectedAnswer = answer.SelectedAnswer
		existing.IsCorrect = answer.IsCorrect
		existing.AnsweredAt = answer.AnsweredAt
		return nil
	}
	copied := *answer
	f.answers[key] = &copied
	return nil
}

func (f *fakeAnswerStore) Find(_ context.Context, attemptID, questionID string) (*models.Answer, error) {
	answer, ok := f.answers[answerKey(attemptID, questionID)]
	if !ok {
		return nil, apperr.NotFoundf("answer not found")
	}
	copied := *answer
	return &copied, nil
}

func (f *fakeAnswerStore) FindByAttempt(_ context.Context, attemptID string) ([]models.Answer, error) {
	var matched []models.Answer
	for _, a := range f.answers {
		if a.AttemptID == attemptID {
			matched = append(matched, *a)
		}
	}
	return matched, nil
}

func (f *fakeAnswerStore) SetExplanation(_ context.Context, attemptID, questionID, explanation string) error {
	answer, ok := f.answers[answerKey(attemptID, questionID)]
	if !ok {
		return apperr.NotFoundf("answer not found")
	}
	answer.AIExplanation = explanation
	return nil
}

type fakeQuestionStore struct {
	quizzes *fakeQuizStore
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	for _, questions := range f.quizzes.questions {
		for i := range questions {
			if questions[i].ID == id {
				return &questions[i], nil
			}
		}
	}
	return nil, apperr.NotFoundf("question %s not found", id)
}

func (f *fakeQuestionStore) FindByQuiz(_ context.Context, quizID string) ([]models.Question, error) {
	return f.quizzes.questions[quizID], nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperr.Validationf("username or email already in use")
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFoundf("user not found")
}

func (f *fakeUserStore) FindOptedIn(_ context.Context) (map[string]string, error) {
	optedIn := make(map[string]string)
	for id, u := range f.users {
		if u.ShowOnLeaderboard {
			optedIn[id] = u.Username
		}
	}
	return optedIn, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id string, update bson.M) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFoundf("user %s not found", id)
	}
	if bio, ok := update["bio"].(string); ok {
		user.Bio = bio
	}
	if difficulty, ok := update["preferred_difficulty"].(string); ok {
		user.PreferredDifficulty = difficulty
	}
	if show, ok := update["show_on_leaderboard"].(bool); ok {
		user.ShowOnLeaderboard = show
	}
	if notify, ok := update["email_notifications"].(bool); ok {
		user.EmailNotifications = notify
	}
	if at, ok := update["updated_at"].(time.Time); ok {
		user.UpdatedAt = at
	}
	return nil
}
