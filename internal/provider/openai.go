package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/config"
	"intelliquiz-service/internal/logger"
)

const generatorSystemPrompt = "You are an expert quiz question generator. " +
	"Generate high-quality, accurate multiple-choice questions in JSON format."

var difficultyDescriptions = map[string]string{
	"easy":   "basic and straightforward",
	"medium": "moderate complexity requiring some knowledge",
	"hard":   "advanced and challenging",
}

// OpenAIProvider generates questions with the OpenAI chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	log         *logger.Logger
}

func NewOpenAIProvider(cfg config.OpenAIConfig, log *logger.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		log:         log.With("component", "openai_provider"),
	}, nil
}

func (p *OpenAIProvider) GenerateQuestions(ctx context.Context, req Request) ([]Question, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildGenerationPrompt(req)},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		return nil, apperr.Providerf("openai chat completion: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.Providerf("no choices in openai response")
	}

	questions, err := parseQuestions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	valid := filterValid(questions)
	if dropped := len(questions) - len(valid); dropped > 0 {
		p.log.Warn("dropped malformed generated questions", "dropped", dropped, "kept", len(valid))
	}
	p.log.Info("generated questions", "topic", req.Topic(), "difficulty", req.Difficulty, "count", len(valid))
	return valid, nil
}

func (p *OpenAIProvider) ExplainAnswer(ctx context.Context, req ExplainRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a patient tutor. Explain quiz answers clearly and concisely."},
			{Role: openai.ChatMessageRoleUser, Content: buildExplanationPrompt(req)},
		},
		MaxTokens:   500,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", apperr.Providerf("openai chat completion: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Providerf("no choices in openai response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildGenerationPrompt(req Request) string {
	desc := difficultyDescriptions[req.Difficulty]

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions about %s.\n\n", req.Count, req.Topic())
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Difficulty level: %s (%s)\n", req.Difficulty, desc)
	b.WriteString("- Each question must have exactly 4 options (A, B, C, D)\n")
	b.WriteString("- Only ONE option should be correct\n")
	b.WriteString("- Include a brief explanation for the correct answer\n")
	b.WriteString("- Questions should be clear, unambiguous, and educational\n")
	b.WriteString("- Avoid trick questions or overly obscure topics\n\n")
	b.WriteString("Return ONLY a JSON array in this exact format:\n")
	b.WriteString(`[
    {
        "question": "What is the primary purpose of Python's 'self' parameter?",
        "options": {
            "A": "To refer to the class itself",
            "B": "To refer to the instance of the class",
            "C": "To create a new object",
            "D": "To delete an instance"
        },
        "correct_answer": "B",
        "explanation": "The 'self' parameter refers to the instance of the class and is used to access instance variables and methods."
    }
]`)
	fmt.Fprintf(&b, "\n\nGenerate %d questions now:", req.Count)
	return b.String()
}

func buildExplanationPrompt(req ExplainRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", req.QuestionText)
	for _, tag := range requiredOptionKeys {
		fmt.Fprintf(&b, "%s. %s\n", tag, req.Options[tag])
	}
	if req.SelectedAnswer == req.CorrectAnswer {
		fmt.Fprintf(&b, "\nThe student correctly selected %q.\n", req.SelectedAnswer)
		b.WriteString("Explain in 2-3 sentences why this answer is right.")
	} else {
		fmt.Fprintf(&b, "\nThe student selected %q but the correct answer is %q.\n", req.SelectedAnswer, req.CorrectAnswer)
		b.WriteString("Explain in 2-3 sentences why the correct answer is right and why the selected option is wrong.")
	}
	return b.String()
}

// parseQuestions extracts the JSON array from the model output, tolerating
// prose around it, and unmarshals the items.
func parseQuestions(content string) ([]Question, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, apperr.Providerf("no JSON array found in response")
	}
	var questions []Question
	if err := json.Unmarshal([]byte(content[start:end+1]), &questions); err != nil {
		return nil, apperr.Providerf("failed to parse questions: %v", err)
	}
	return questions, nil
}
