package provider

import (
	"context"
	"sync"

	"intelliquiz-service/internal/apperr"
)

// MockProvider is a deterministic QuestionProvider for tests. It returns
// canned batches in FIFO order and records every request it receives.
type MockProvider struct {
	mu           sync.Mutex
	batches      [][]Question
	explanations []string
	Calls        []Request
	ExplainCalls []ExplainRequest
}

func NewMockProvider(batches ...[]Question) *MockProvider {
	return &MockProvider{batches: batches}
}

func (m *MockProvider) GenerateQuestions(_ context.Context, req Request) ([]Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.batches) == 0 {
		return nil, apperr.Providerf("mock provider has no batches left")
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	return batch, nil
}

func (m *MockProvider) ExplainAnswer(_ context.Context, req ExplainRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExplainCalls = append(m.ExplainCalls, req)
	if len(m.explanations) == 0 {
		return "mock explanation", nil
	}
	text := m.explanations[0]
	m.explanations = m.explanations[1:]
	return text, nil
}

// AddBatch appends a canned batch to the queue.
func (m *MockProvider) AddBatch(batch []Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, batch)
}

// AddExplanation appends a canned explanation to the queue.
func (m *MockProvider) AddExplanation(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.explanations = append(m.explanations, text)
}

// CallCount returns the number of GenerateQuestions calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
