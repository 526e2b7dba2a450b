package models

import "time"

// Answer is a user's selected option for one question of one attempt. The
// (attempt_id, question_id) pair is unique; saving again overwrites the
// selection and recomputes correctness.
type Answer struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	AttemptID      string    `bson:"attempt_id" json:"attempt_id"`
	QuestionID     string    `bson:"question_id" json:"question_id"`
	QuestionOrder  int       `bson:"question_order" json:"question_order"`
	SelectedAnswer string    `bson:"selected_answer" json:"selected_answer"`
	IsCorrect      bool      `bson:"is_correct" json:"is_correct"`
	AIExplanation  string    `bson:"ai_explanation,omitempty" json:"ai_explanation,omitempty"`
	AnsweredAt     time.Time `bson:"answered_at" json:"answered_at"`
}
