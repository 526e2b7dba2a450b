package provider

import "context"

// Request describes one batch of questions to generate.
type Request struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
}

// Topic is the subject the questions should cover: the subcategory when one
// was chosen, otherwise the category.
func (r Request) Topic() string {
	if r.Subcategory != "" {
		return r.Subcategory
	}
	return r.Category
}

// Question is one validated generated item. Options always covers exactly the
// keys A-D and CorrectAnswer is one of them; items violating that are dropped
// before they reach the caller.
type Question struct {
	Text          string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// ExplainRequest asks for a fresh explanation of why a selected option was
// wrong (or right) for a given question.
type ExplainRequest struct {
	QuestionText   string
	Options        map[string]string
	SelectedAnswer string
	CorrectAnswer  string
}

// QuestionProvider supplies generated question content. Implementations must
// drop malformed items rather than surfacing them.
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context, req Request) ([]Question, error)
	ExplainAnswer(ctx context.Context, req ExplainRequest) (string, error)
}

var requiredOptionKeys = []string{"A", "B", "C", "D"}

// validQuestion checks one generated item against the provider contract.
func validQuestion(q Question) bool {
	if q.Text == "" || q.Explanation == "" {
		return false
	}
	if len(q.Options) != len(requiredOptionKeys) {
		return false
	}
	for _, key := range requiredOptionKeys {
		if _, ok := q.Options[key]; !ok {
			return false
		}
	}
	correct := false
	for _, key := range requiredOptionKeys {
		if q.CorrectAnswer == key {
			correct = true
			break
		}
	}
	return correct
}

// filterValid keeps only items satisfying the contract.
func filterValid(questions []Question) []Question {
	valid := make([]Question, 0, len(questions))
	for _, q := range questions {
		if validQuestion(q) {
			valid = append(valid, q)
		}
	}
	return valid
}
