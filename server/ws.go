package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/defipilot/sui-agent/chat"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The browser client is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is one websocket message in either direction.
type Frame struct {
	Type string `json:"type"`

	// Client to server.
	Address string `json:"address,omitempty"`
	Text    string `json:"text,omitempty"`

	// Server to client.
	Delta      string               `json:"delta,omitempty"`
	Invocation *core.ToolInvocation `json:"invocation,omitempty"`
	Message    string               `json:"message,omitempty"`
	Verified   *bool                `json:"verified,omitempty"`
}

const (
	frameInit        = "init"
	frameUserMessage = "user_message"
	frameReady       = "ready"
	frameTextDelta   = "text_delta"
	frameToolCall    = "tool_call"
	frameToolResult  = "tool_result"
	frameDone        = "done"
	frameError       = "error"
)

// conn is the per-connection chat state. One engine session and one
// transcript live for as long as the socket does.
type conn struct {
	ws      *websocket.Conn
	session *engine.Session
	state   *chat.State
}

func (c *conn) send(frame Frame) error {
	return c.ws.WriteJSON(frame)
}

// handleWS runs the chat protocol: an init frame binds the wallet address,
// then each user_message frame runs one engine turn, streaming text deltas
// and invocation updates back as they happen.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] websocket upgrade: %v", err)
		return
	}
	defer ws.Close()

	var init Frame
	if err := ws.ReadJSON(&init); err != nil || init.Type != frameInit {
		ws.WriteJSON(Frame{Type: frameError, Message: "expected init frame"})
		return
	}

	verified := true
	if s.invites != nil {
		verified, err = s.invites.IsVerified(r.Context(), init.Address)
		if err != nil {
			log.Printf("[SERVER] invite check: %v", err)
			verified = false
		}
	}

	c := &conn{
		ws:      ws,
		session: engine.NewSession(init.Address),
		state:   chat.NewState(),
	}
	if err := c.send(Frame{Type: frameReady, Verified: &verified}); err != nil {
		return
	}
	log.Printf("[SERVER] session %s started for %s", c.session.ID, init.Address)

	for {
		var frame Frame
		if err := ws.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] session %s read: %v", c.session.ID, err)
			}
			return
		}
		if frame.Type != frameUserMessage {
			c.send(Frame{Type: frameError, Message: "unexpected frame type " + frame.Type})
			continue
		}
		if !verified {
			c.send(Frame{Type: frameError, Message: "invite required"})
			continue
		}
		s.runTurn(r, c, frame.Text)
	}
}

// runTurn executes one engine turn and streams its events to the socket.
// Engine events arrive on the calling goroutine, so writes here never race.
func (s *Server) runTurn(r *http.Request, c *conn, text string) {
	ctx := r.Context()

	c.state.AppendUserMessage(text)
	c.state.BeginAssistantMessage()

	output, err := s.engine.Run(ctx, &engine.Input{
		Session:      c.session,
		UserMessage:  text,
		SystemPrompt: engine.SystemPrompt(ctx, s.chain, c.session.Address),
		OnEvent: func(event engine.Event) {
			switch event.Type {
			case engine.EventTextDelta:
				c.state.AppendTextDelta(event.TextDelta)
				c.send(Frame{Type: frameTextDelta, Delta: event.TextDelta})
			case engine.EventToolCall:
				if err := c.state.UpsertInvocation(event.Invocation); err != nil {
					log.Printf("[SERVER] session %s: %v", c.session.ID, err)
				}
				c.send(Frame{Type: frameToolCall, Invocation: snapshot(event.Invocation)})
			case engine.EventToolResult:
				if err := c.state.UpsertInvocation(event.Invocation); err != nil {
					log.Printf("[SERVER] session %s: %v", c.session.ID, err)
				}
				c.send(Frame{Type: frameToolResult, Invocation: snapshot(event.Invocation)})
			}
		},
	})
	if err != nil {
		log.Printf("[SERVER] session %s turn failed: %v", c.session.ID, err)
		c.send(Frame{Type: frameError, Message: "something went wrong, please try again"})
		return
	}

	c.send(Frame{Type: frameDone, Text: output.Text})
}

// snapshot copies an invocation so later loop iterations cannot mutate a
// frame already queued for writing.
func snapshot(inv *core.ToolInvocation) *core.ToolInvocation {
	if inv == nil {
		return nil
	}
	clone := *inv
	if inv.Args != nil {
		clone.Args = append(json.RawMessage(nil), inv.Args...)
	}
	if inv.Result != nil {
		clone.Result = append(json.RawMessage(nil), inv.Result...)
	}
	return &clone
}
