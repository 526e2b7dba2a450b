package models

import "time"

// OptionTags are the four option keys every question defines. A question's
// correct answer must be one of these.
var OptionTags = []string{"A", "B", "C", "D"}

type Question struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	QuizID        string    `bson:"quiz_id" json:"quiz_id"`
	Text          string    `bson:"text" json:"text"`
	OptionA       string    `bson:"option_a" json:"option_a"`
	OptionB       string    `bson:"option_b" json:"option_b"`
	OptionC       string    `bson:"option_c" json:"option_c"`
	OptionD       string    `bson:"option_d" json:"option_d"`
	CorrectAnswer string    `bson:"correct_answer" json:"-"`
	Explanation   string    `bson:"explanation" json:"-"`
	Order         int       `bson:"order" json:"order"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// ValidOptionTag reports whether tag is one of A, B, C, D.
func ValidOptionTag(tag string) bool {
	for _, t := range OptionTags {
		if tag == t {
			return true
		}
	}
	return false
}

// Options returns the four options keyed by tag.
func (q *Question) Options() map[string]string {
	return map[string]string{
		"A": q.OptionA,
		"B": q.OptionB,
		"C": q.OptionC,
		"D": q.OptionD,
	}
}
