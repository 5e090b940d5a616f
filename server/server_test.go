package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/gorilla/websocket"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/engine"
	"github.com/defipilot/sui-agent/invite"
	"github.com/defipilot/sui-agent/server"
)

type fakeModel struct {
	responses []*anthropic.Message
}

func (f *fakeModel) Create(_ context.Context, _ anthropic.MessageNewParams) (*anthropic.Message, error) {
	if len(f.responses) == 0 {
		return textResponse("done"), nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeModel) Stream(ctx context.Context, params anthropic.MessageNewParams, onDelta func(string)) (*anthropic.Message, error) {
	resp, err := f.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	for _, block := range resp.Content {
		if block.Type == "text" && onDelta != nil {
			onDelta(block.Text)
		}
	}
	return resp, nil
}

func textResponse(text string) *anthropic.Message {
	return &anthropic.Message{
		Role:       "assistant",
		StopReason: "end_turn",
		Content:    []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
	}
}

func toolCallResponse(callID, name, args string) *anthropic.Message {
	return &anthropic.Message{
		Role:       "assistant",
		StopReason: "tool_use",
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: callID, Name: name, Input: json.RawMessage(args)},
		},
	}
}

type stubTool struct {
	name   string
	result *core.ToolResult
}

func (s *stubTool) Name() string                   { return s.name }
func (s *stubTool) Description() string            { return "stub" }
func (s *stubTool) Schema() map[string]interface{} { return map[string]interface{}{"type": "object"} }
func (s *stubTool) Execute(context.Context, *core.ToolParams) (*core.ToolResult, error) {
	return s.result, nil
}

type fakeChain struct{}

func (fakeChain) Balance(context.Context, string, string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func newTestServer(t *testing.T, model *fakeModel, tools ...core.Tool) *server.Server {
	t.Helper()
	registry := engine.NewToolRegistry()
	registry.Register(tools...)
	store, err := invite.Open(filepath.Join(t.TempDir(), "invite.db"), "beta-code")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if _, err := store.Redeem(context.Background(), "beta-code", "0xabc"); err != nil {
		t.Fatal(err)
	}
	return server.New(engine.NewEngine(model, registry), fakeChain{}, store)
}

func dialWS(t *testing.T, ts *httptest.Server, address string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Close() })

	if err := ws.WriteJSON(server.Frame{Type: "init", Address: address}); err != nil {
		t.Fatal(err)
	}
	var ready server.Frame
	if err := ws.ReadJSON(&ready); err != nil {
		t.Fatal(err)
	}
	if ready.Type != "ready" {
		t.Fatalf("first frame = %s, want ready", ready.Type)
	}
	return ws
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeModel{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestVerifyInviteRoundTrip(t *testing.T) {
	srv := newTestServer(t, &fakeModel{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	post := func(body string) *http.Response {
		resp, err := http.Post(ts.URL+"/verify-invite", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	if resp := post(`{"inviteCode":"wrong","address":"0xnew"}`); resp.StatusCode != http.StatusForbidden {
		t.Errorf("wrong code status = %d, want 403", resp.StatusCode)
	}
	if resp := post(`{"address":"0xnew"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing code status = %d, want 400", resp.StatusCode)
	}
	if resp := post(`{"inviteCode":"beta-code","address":"0xnew"}`); resp.StatusCode != http.StatusOK {
		t.Errorf("valid code status = %d, want 200", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/verify-invite?address=0xnew")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var check struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		t.Fatal(err)
	}
	if !check.Verified {
		t.Error("redeemed address not reported verified")
	}
}

func TestWSStreamsTurn(t *testing.T) {
	tool := &stubTool{name: "getAllBalances", result: core.Ok(map[string]interface{}{"balances": []string{}})}
	model := &fakeModel{responses: []*anthropic.Message{
		toolCallResponse("call_1", "getAllBalances", `{}`),
		textResponse("here you go"),
	}}
	srv := newTestServer(t, model, tool)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ws := dialWS(t, ts, "0xabc")
	if err := ws.WriteJSON(server.Frame{Type: "user_message", Text: "show my balances"}); err != nil {
		t.Fatal(err)
	}

	var types []string
	for {
		var frame server.Frame
		if err := ws.ReadJSON(&frame); err != nil {
			t.Fatal(err)
		}
		types = append(types, frame.Type)
		if frame.Type == "tool_result" {
			if frame.Invocation == nil || frame.Invocation.State != core.InvocationResult {
				t.Errorf("tool_result frame carries %+v", frame.Invocation)
			}
		}
		if frame.Type == "done" {
			if frame.Text != "here you go" {
				t.Errorf("done text = %q", frame.Text)
			}
			break
		}
		if frame.Type == "error" {
			t.Fatalf("unexpected error frame: %v", frame.Message)
		}
	}

	joined := strings.Join(types, ",")
	if !strings.Contains(joined, "tool_call") || !strings.Contains(joined, "tool_result") {
		t.Errorf("frame sequence = %v, want tool_call then tool_result", types)
	}
	if strings.Index(joined, "tool_call") > strings.Index(joined, "tool_result") {
		t.Errorf("tool_call must precede tool_result, got %v", types)
	}
}

func TestWSRejectsUnverifiedAddress(t *testing.T) {
	srv := newTestServer(t, &fakeModel{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ws := dialWS(t, ts, "0xstranger")
	if err := ws.WriteJSON(server.Frame{Type: "user_message", Text: "hi"}); err != nil {
		t.Fatal(err)
	}

	var frame server.Frame
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != "error" {
		t.Fatalf("frame = %s, want error for unverified address", frame.Type)
	}
}

func TestWSRequiresInitFirst(t *testing.T) {
	srv := newTestServer(t, &fakeModel{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(server.Frame{Type: "user_message", Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	var frame server.Frame
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != "error" {
		t.Errorf("frame = %s, want error without init", frame.Type)
	}
}
