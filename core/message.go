package core

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// InvocationState tracks a tool invocation through its lifecycle.
// States advance monotonically: a dispatched call eventually becomes a
// result, and a result is terminal. A failed execution is still a result;
// the payload carries success=false and renderers branch on it.
type InvocationState string

const (
	// InvocationPending means the model has requested the call but the
	// arguments are still streaming in.
	InvocationPending InvocationState = "pending"

	// InvocationCall means the tool has been dispatched and is executing.
	InvocationCall InvocationState = "call"

	// InvocationResult means the tool finished and Result is populated.
	InvocationResult InvocationState = "result"
)

// ToolInvocation is the wire shape shared by the model loop, the client
// session state, and the renderers. Whenever State is InvocationResult the
// Result payload is present and contains a boolean "success" field.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	State      InvocationState `json:"state"`
	Args       json.RawMessage `json:"args,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Renderable reports whether the invocation is in a state the client can
// show: an in-flight call gets a loading placeholder, a result gets the
// registered component.
func (inv *ToolInvocation) Renderable() bool {
	switch inv.State {
	case InvocationCall, InvocationResult:
		return true
	}
	return false
}

// PartType discriminates message parts.
type PartType string

const (
	PartText           PartType = "text"
	PartToolInvocation PartType = "tool-invocation"
)

// Part is one ordered element of a message: either a text fragment or an
// embedded tool invocation.
type Part struct {
	Type       PartType        `json:"type"`
	Text       string          `json:"text,omitempty"`
	Invocation *ToolInvocation `json:"toolInvocation,omitempty"`
}

// Message is one turn of the conversation transcript. Once finalized a
// message is immutable; the ordered slice of messages owned by the client
// session is the only transcript there is.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Parts   []Part `json:"parts,omitempty"`
}

// Invocations returns the message's embedded tool invocations in their
// original order.
func (m *Message) Invocations() []*ToolInvocation {
	var invs []*ToolInvocation
	for i := range m.Parts {
		if m.Parts[i].Type == PartToolInvocation && m.Parts[i].Invocation != nil {
			invs = append(invs, m.Parts[i].Invocation)
		}
	}
	return invs
}
