package provider

import "testing"

func wellFormed() Question {
	return Question{
		Text:          "Pick one",
		Options:       map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"},
		CorrectAnswer: "A",
		Explanation:   "because",
	}
}

func TestFilterValid(t *testing.T) {
	missingOption := wellFormed()
	delete(missingOption.Options, "D")

	extraOption := wellFormed()
	extraOption.Options["E"] = "5"

	badCorrect := wellFormed()
	badCorrect.CorrectAnswer = "X"

	noText := wellFormed()
	noText.Text = ""

	noExplanation := wellFormed()
	noExplanation.Explanation = ""

	input := []Question{
		wellFormed(),
		missingOption,
		extraOption,
		badCorrect,
		noText,
		noExplanation,
		wellFormed(),
	}

	valid := filterValid(input)
	if len(valid) != 2 {
		t.Fatalf("Expected 2 valid questions, got %d", len(valid))
	}
	for _, q := range valid {
		if q.Text != "Pick one" {
			t.Errorf("Unexpected survivor %+v", q)
		}
	}
}

func TestParseQuestions(t *testing.T) {
	content := `Here are your questions:

[
  {
    "question": "What is 2+2?",
    "options": {"A": "3", "B": "4", "C": "5", "D": "6"},
    "correct_answer": "B",
    "explanation": "Basic arithmetic."
  }
]

Let me know if you need more!`

	questions, err := parseQuestions(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != "B" {
		t.Errorf("Expected correct answer B, got %q", questions[0].CorrectAnswer)
	}
	if questions[0].Options["D"] != "6" {
		t.Errorf("Expected option D to be 6, got %q", questions[0].Options["D"])
	}
}

func TestParseQuestionsRejectsGarbage(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"no array", "I could not generate questions today."},
		{"malformed json", "[{not json]"},
		{"reversed brackets", "] nothing here ["},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseQuestions(tc.content); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRequestTopic(t *testing.T) {
	withSub := Request{Category: "Academic", Subcategory: "Algorithms"}
	if withSub.Topic() != "Algorithms" {
		t.Errorf("Expected subcategory as topic, got %q", withSub.Topic())
	}
	withoutSub := Request{Category: "Academic"}
	if withoutSub.Topic() != "Academic" {
		t.Errorf("Expected category as topic, got %q", withoutSub.Topic())
	}
}
