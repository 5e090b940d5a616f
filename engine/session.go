package engine

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
)

// Session is the model-side transcript of one conversation. It owns the
// ordered Anthropic message list the loop replays on every step.
type Session struct {
	ID      string
	Address string

	mu       sync.Mutex
	messages []anthropic.MessageParam
}

// NewSession creates a session for the given wallet address. Address may be
// empty when no wallet is connected.
func NewSession(address string) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Address: address,
	}
}

// AddUserMessage appends a plain user message.
func (s *Session) AddUserMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
}

// AddAssistantResponse appends a full assistant response, tool_use blocks
// included.
func (s *Session) AddAssistantResponse(resp *anthropic.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, resp.ToParam())
}

// AddToolResults appends tool results as a user message, as the API
// requires.
func (s *Session) AddToolResults(results []anthropic.ContentBlockParamUnion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, anthropic.NewUserMessage(results...))
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []anthropic.MessageParam {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]anthropic.MessageParam, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
