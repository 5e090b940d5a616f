// Package chat holds the client-side conversation state: the transcript of
// messages, the lifecycle of embedded tool invocations, and the mapping from
// finished invocations to renderable views.
package chat

import (
	"fmt"
	"sync"

	"github.com/defipilot/sui-agent/core"
	"github.com/google/uuid"
)

// State is the append-only transcript of one chat session. Messages are
// mutated only through the methods here: append a message, stream text into
// the open assistant message, and advance embedded invocations. Reads return
// copies.
type State struct {
	mu       sync.RWMutex
	messages []core.Message

	// invIndex locates an invocation by tool call ID inside messages.
	invIndex map[string]invLocation
}

type invLocation struct {
	messageIdx int
	partIdx    int
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{invIndex: make(map[string]invLocation)}
}

// AppendUserMessage appends a user message and returns its ID.
func (s *State) AppendUserMessage(content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.messages = append(s.messages, core.Message{
		ID:      id,
		Role:    core.RoleUser,
		Content: content,
		Parts:   []core.Part{{Type: core.PartText, Text: content}},
	})
	return id
}

// BeginAssistantMessage opens a new assistant message for the current turn
// and returns its ID. Streamed text and invocations attach to it.
func (s *State) BeginAssistantMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.messages = append(s.messages, core.Message{
		ID:   id,
		Role: core.RoleAssistant,
	})
	return id
}

func (s *State) lastAssistant() (*core.Message, error) {
	if len(s.messages) == 0 {
		return nil, fmt.Errorf("no open assistant message")
	}
	msg := &s.messages[len(s.messages)-1]
	if msg.Role != core.RoleAssistant {
		return nil, fmt.Errorf("last message is %s, not assistant", msg.Role)
	}
	return msg, nil
}

// AppendTextDelta appends streamed text to the open assistant message,
// extending its trailing text part or starting a new one after an
// invocation.
func (s *State) AppendTextDelta(delta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, err := s.lastAssistant()
	if err != nil {
		return err
	}
	msg.Content += delta
	if n := len(msg.Parts); n > 0 && msg.Parts[n-1].Type == core.PartText {
		msg.Parts[n-1].Text += delta
		return nil
	}
	msg.Parts = append(msg.Parts, core.Part{Type: core.PartText, Text: delta})
	return nil
}

// UpsertInvocation records an invocation update inside the open assistant
// message. A new tool call ID appends a part; a known ID advances the
// existing part in place. States only move forward: an update that would
// regress (a call after its result) is rejected.
func (s *State) UpsertInvocation(inv *core.ToolInvocation) error {
	if inv == nil || inv.ToolCallID == "" {
		return fmt.Errorf("invocation has no tool call id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc, ok := s.invIndex[inv.ToolCallID]; ok {
		existing := s.messages[loc.messageIdx].Parts[loc.partIdx].Invocation
		if rank(inv.State) < rank(existing.State) {
			return fmt.Errorf("invocation %s cannot move %s -> %s", inv.ToolCallID, existing.State, inv.State)
		}
		clone := *inv
		s.messages[loc.messageIdx].Parts[loc.partIdx].Invocation = &clone
		return nil
	}

	msg, err := s.lastAssistant()
	if err != nil {
		return err
	}
	clone := *inv
	msg.Parts = append(msg.Parts, core.Part{Type: core.PartToolInvocation, Invocation: &clone})
	s.invIndex[inv.ToolCallID] = invLocation{
		messageIdx: len(s.messages) - 1,
		partIdx:    len(msg.Parts) - 1,
	}
	return nil
}

func rank(state core.InvocationState) int {
	switch state {
	case core.InvocationPending:
		return 0
	case core.InvocationCall:
		return 1
	case core.InvocationResult:
		return 2
	}
	return -1
}

// Messages returns a copy of the transcript.
func (s *State) Messages() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Message, len(s.messages))
	copy(out, s.messages)
	for i := range out {
		parts := make([]core.Part, len(out[i].Parts))
		copy(parts, out[i].Parts)
		out[i].Parts = parts
	}
	return out
}

// Invocation returns the current snapshot of one invocation.
func (s *State) Invocation(toolCallID string) (*core.ToolInvocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.invIndex[toolCallID]
	if !ok {
		return nil, false
	}
	clone := *s.messages[loc.messageIdx].Parts[loc.partIdx].Invocation
	return &clone, true
}

// LastRenderable returns the most recent renderable invocation across the
// whole transcript. Clients that show a single component panel use this;
// clients that render inline use Messages and walk every part in order.
func (s *State) LastRenderable() (*core.ToolInvocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		parts := s.messages[i].Parts
		for j := len(parts) - 1; j >= 0; j-- {
			inv := parts[j].Invocation
			if parts[j].Type == core.PartToolInvocation && inv != nil && inv.Renderable() {
				clone := *inv
				return &clone, true
			}
		}
	}
	return nil, false
}
