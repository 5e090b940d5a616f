package engine_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/engine"
)

// fakeModel replays a queue of scripted responses and records each request.
type fakeModel struct {
	responses []*anthropic.Message
	requests  []anthropic.MessageNewParams
}

func (f *fakeModel) Create(_ context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	f.requests = append(f.requests, params)
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

// stubTool returns a canned result and records its inputs.
type stubTool struct {
	name   string
	result *core.ToolResult
	gotIn  json.RawMessage
}

func (s *stubTool) Name() string                   { return s.name }
func (s *stubTool) Description() string            { return "stub" }
func (s *stubTool) Schema() map[string]interface{} { return map[string]interface{}{"type": "object"} }
func (s *stubTool) Execute(_ context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	s.gotIn = params.Input
	return s.result, nil
}

func newTestEngine(model *fakeModel, tools ...core.Tool) *engine.Engine {
	registry := engine.NewToolRegistry()
	registry.Register(tools...)
	return engine.NewEngine(model, registry)
}

func TestRunPlainTextResponse(t *testing.T) {
	model := &fakeModel{responses: []*anthropic.Message{textResponse("hello there")}}
	e := newTestEngine(model)

	out, err := e.Run(context.Background(), &engine.Input{
		Session:     engine.NewSession(""),
		UserMessage: "hi",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text != "hello there" {
		t.Errorf("text = %q", out.Text)
	}
	if len(out.Invocations) != 0 {
		t.Errorf("got %d invocations, want 0", len(out.Invocations))
	}
	if len(model.requests) != 1 {
		t.Errorf("model called %d times, want 1", len(model.requests))
	}
}

func TestRunExecutesToolAndContinues(t *testing.T) {
	tool := &stubTool{name: "getAllBalances", result: core.Ok(map[string]interface{}{"balances": []string{}})}
	model := &fakeModel{responses: []*anthropic.Message{
		toolCallResponse("call_1", "getAllBalances", `{"address":"0xabc"}`),
		textResponse("here is your portfolio"),
	}}
	e := newTestEngine(model, tool)

	var events []engine.Event
	out, err := e.Run(context.Background(), &engine.Input{
		Session:     engine.NewSession("0xabc"),
		UserMessage: "show balances",
		OnEvent:     func(ev engine.Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text != "here is your portfolio" {
		t.Errorf("text = %q", out.Text)
	}
	if len(out.Invocations) != 1 {
		t.Fatalf("got %d invocations, want 1", len(out.Invocations))
	}

	inv := out.Invocations[0]
	if inv.State != core.InvocationResult {
		t.Errorf("final state = %s, want result", inv.State)
	}
	var result core.ToolResult
	if err := json.Unmarshal(inv.Result, &result); err != nil {
		t.Fatalf("invocation result not a ToolResult: %v", err)
	}
	if !result.Success {
		t.Error("result.success = false, want true")
	}
	if string(tool.gotIn) != `{"address":"0xabc"}` {
		t.Errorf("tool input = %s", tool.gotIn)
	}

	// Event order: call announcement precedes the result.
	var sawCall, sawResult bool
	for _, ev := range events {
		switch ev.Type {
		case engine.EventToolCall:
			if sawResult {
				t.Error("tool_call emitted after tool_result")
			}
			if ev.Invocation.State != core.InvocationCall {
				t.Errorf("call event state = %s", ev.Invocation.State)
			}
			sawCall = true
		case engine.EventToolResult:
			if !sawCall {
				t.Error("tool_result emitted before tool_call")
			}
			sawResult = true
		}
	}
	if !sawCall || !sawResult {
		t.Errorf("missing events: call=%v result=%v", sawCall, sawResult)
	}

	if len(model.requests) != 2 {
		t.Fatalf("model called %d times, want 2", len(model.requests))
	}
	// Second request replays user message, assistant turn and tool results.
	if len(model.requests[1].Messages) != 3 {
		t.Errorf("second request has %d messages, want 3", len(model.requests[1].Messages))
	}
}

func TestRunUnknownToolKeepsLooping(t *testing.T) {
	model := &fakeModel{responses: []*anthropic.Message{
		toolCallResponse("call_1", "doesNotExist", `{}`),
		textResponse("sorry about that"),
	}}
	e := newTestEngine(model)

	out, err := e.Run(context.Background(), &engine.Input{
		Session:     engine.NewSession(""),
		UserMessage: "do something",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text != "sorry about that" {
		t.Errorf("text = %q", out.Text)
	}
	if len(out.Invocations) != 1 {
		t.Fatalf("got %d invocations, want 1", len(out.Invocations))
	}
	var result core.ToolResult
	if err := json.Unmarshal(out.Invocations[0].Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.Success || !strings.Contains(result.Error, "unknown tool") {
		t.Errorf("result = %+v, want unknown tool failure", result)
	}
}

func TestRunStepCeiling(t *testing.T) {
	tool := &stubTool{name: "getAllBalances", result: core.Ok("ok")}
	// The model asks for a tool on every step and never settles.
	var responses []*anthropic.Message
	for i := 0; i < 10; i++ {
		responses = append(responses, toolCallResponse("call", "getAllBalances", `{}`))
	}
	model := &fakeModel{responses: responses}
	e := newTestEngine(model, tool)

	out, err := e.Run(context.Background(), &engine.Input{
		Session:     engine.NewSession(""),
		UserMessage: "loop forever",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(model.requests) != engine.DefaultMaxSteps {
		t.Errorf("model called %d times, want %d", len(model.requests), engine.DefaultMaxSteps)
	}
	if len(out.Invocations) != engine.DefaultMaxSteps {
		t.Errorf("got %d invocations, want %d", len(out.Invocations), engine.DefaultMaxSteps)
	}
}

func TestRegistryToAPIToolsSortedAndFiltered(t *testing.T) {
	registry := engine.NewToolRegistry()
	registry.Register(
		&stubTool{name: "swap"},
		&stubTool{name: "getAllBalances"},
		&stubTool{name: "listCoins"},
	)

	apiTools := registry.ToAPITools()
	if len(apiTools) != 3 {
		t.Fatalf("got %d tools, want 3", len(apiTools))
	}
	if apiTools[0].OfTool.Name != "getAllBalances" {
		t.Errorf("first tool = %s, want getAllBalances", apiTools[0].OfTool.Name)
	}

	filtered := registry.ToAPIToolsFiltered(engine.FilterByNames("swap"))
	if len(filtered) != 1 || filtered[0].OfTool.Name != "swap" {
		t.Errorf("filtered = %d tools", len(filtered))
	}
}
