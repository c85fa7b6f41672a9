package mock

import (
	"context"

	"github.com/mynk/notebook/provider"
)

// MockCompleter is a test double for provider.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default deterministic behavior.
	CompleteFunc func(ctx context.Context, prompt string) (provider.Completion, error)

	callCount  int
	lastPrompt string
}

// NewMockCompleter creates a mock completer with default deterministic behavior.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned successful completion echoing the prompt length.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (provider.Completion, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	return provider.Completion{OK: true, Text: "mock completion"}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt from the most recent Complete call.
func (m *MockCompleter) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.CompleteFunc = nil
}
