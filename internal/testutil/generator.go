package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/guesthouse-ai/concierge/internal/session"
)

// MockGenerator provides deterministic replies for testing. It matches
// the incoming message against registered patterns and returns the
// corresponding response.
//
// Thread-safe for concurrent use.
type MockGenerator struct {
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	failWith error
	calls    []GenerateCall
}

type mockRule struct {
	pattern  string // substring match in the message, lowercased
	response string
}

// GenerateCall records a single call to the mock generator.
type GenerateCall struct {
	Transcript []session.Entry
	Message    string
	Response   string
}

// NewMockGenerator creates a mock generator with the given fallback
// response, returned when no pattern matches.
func NewMockGenerator(fallback string) *MockGenerator {
	return &MockGenerator{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a message contains
// the pattern (case-insensitive), the response is returned. Patterns are
// checked in registration order; first match wins.
func (m *MockGenerator) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// FailWith makes subsequent Generate calls return err. Pass nil to
// restore normal behavior.
func (m *MockGenerator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Calls returns a copy of all recorded calls.
func (m *MockGenerator) Calls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]GenerateCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Reset clears all recorded calls (keeps registered responses).
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Generate implements the chat generator contract.
func (m *MockGenerator) Generate(_ context.Context, transcript []session.Entry, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return "", m.failWith
	}

	response := m.fallback
	lower := strings.ToLower(message)
	for _, rule := range m.rules {
		if strings.Contains(lower, rule.pattern) {
			response = rule.response
			break
		}
	}

	cp := make([]session.Entry, len(transcript))
	copy(cp, transcript)
	m.calls = append(m.calls, GenerateCall{
		Transcript: cp,
		Message:    message,
		Response:   response,
	})

	return response, nil
}
