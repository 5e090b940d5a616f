package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/defipilot/sui-agent/core"
)

// DefaultModel is the model used when the input names none.
const DefaultModel = "claude-sonnet-4-20250514"

// DefaultMaxSteps bounds the tool-calling loop. One step is one model
// response; a response with tool calls consumes a step and loops, a plain
// text response ends the run.
const DefaultMaxSteps = 5

// EventType discriminates streamed engine events.
type EventType string

const (
	// EventTextDelta carries a fragment of assistant text.
	EventTextDelta EventType = "text_delta"

	// EventToolCall announces a dispatched tool invocation, before it
	// executes. Clients show a loading placeholder until the result.
	EventToolCall EventType = "tool_call"

	// EventToolResult carries the finished invocation with its result.
	EventToolResult EventType = "tool_result"
)

// Event is one streamed update from a run.
type Event struct {
	Type       EventType
	TextDelta  string
	Invocation *core.ToolInvocation
}

// Engine drives the bounded tool-calling loop against the model.
type Engine struct {
	model    ModelClient
	registry *ToolRegistry
	maxSteps int
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxSteps overrides the step ceiling.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// NewEngine creates an engine over the given model client and registry.
func NewEngine(model ModelClient, registry *ToolRegistry, opts ...Option) *Engine {
	e := &Engine{
		model:    model,
		registry: registry,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *ToolRegistry {
	return e.registry
}

// Input is one user turn to process.
type Input struct {
	// Session holds the transcript. Required.
	Session *Session

	// UserMessage is the user's message for this turn.
	UserMessage string

	// SystemPrompt overrides the default system prompt.
	SystemPrompt string

	// Model is the Claude model to use.
	Model string

	// MaxTokens is the maximum response tokens per step.
	MaxTokens int64

	// OnEvent receives streamed events: text deltas, tool calls and tool
	// results, in order. Optional.
	OnEvent func(Event)
}

// Output is the final state of a completed run.
type Output struct {
	// Text is the assistant's final text response.
	Text string

	// Invocations are the tool invocations of this run, in execution
	// order, all in the result state.
	Invocations []*core.ToolInvocation

	// ToolsUsed records execution timing per invocation.
	ToolsUsed []core.ToolExecution

	// TokensUsed tracks model token consumption for this run.
	TokensUsed core.TokenUsage
}

func (i *Input) emit(event Event) {
	if i.OnEvent != nil {
		i.OnEvent(event)
	}
}

// Run executes one user turn: the model responds, requested tools run in
// order, results feed back, and the loop repeats until the model answers in
// plain text or the step ceiling is reached.
func (e *Engine) Run(ctx context.Context, input *Input) (*Output, error) {
	if input.Session == nil {
		return nil, fmt.Errorf("input session is required")
	}

	model := input.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	systemPrompt := input.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	session := input.Session
	if input.UserMessage != "" {
		session.AddUserMessage(input.UserMessage)
	}
	apiTools := e.registry.ToAPITools()

	output := &Output{}

	for step := 0; step < e.maxSteps; step++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run cancelled: %w", ctx.Err())
		}

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages:  session.Messages(),
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
		}
		if len(apiTools) > 0 {
			params.Tools = apiTools
		}

		var resp *anthropic.Message
		var err error
		if input.OnEvent != nil {
			resp, err = e.model.Stream(ctx, params, func(delta string) {
				input.emit(Event{Type: EventTextDelta, TextDelta: delta})
			})
		} else {
			resp, err = e.model.Create(ctx, params)
		}
		if err != nil {
			return nil, fmt.Errorf("model request: %w", err)
		}

		output.TokensUsed.InputTokens += int(resp.Usage.InputTokens)
		output.TokensUsed.OutputTokens += int(resp.Usage.OutputTokens)

		var toolResults []anthropic.ContentBlockParamUnion
		var textResponse string

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				textResponse += block.Text

			case "tool_use":
				inv := &core.ToolInvocation{
					ToolCallID: block.ID,
					ToolName:   block.Name,
					State:      core.InvocationCall,
					Args:       json.RawMessage(block.Input),
				}
				input.emit(Event{Type: EventToolCall, Invocation: inv})

				result, execution := e.executeTool(ctx, session, inv)

				resultJSON, err := json.Marshal(result)
				if err != nil {
					return nil, fmt.Errorf("marshal tool result: %w", err)
				}
				inv.State = core.InvocationResult
				inv.Result = resultJSON
				input.emit(Event{Type: EventToolResult, Invocation: inv})
				output.Invocations = append(output.Invocations, inv)
				output.ToolsUsed = append(output.ToolsUsed, execution)

				toolResults = append(toolResults, toModelResult(block.ID, result))
			}
		}

		output.Text = textResponse

		// A response without tool calls ends the run.
		if len(toolResults) == 0 {
			session.AddAssistantResponse(resp)
			return output, nil
		}

		session.AddAssistantResponse(resp)
		session.AddToolResults(toolResults)
	}

	log.Printf("[ENGINE] step ceiling reached after %d steps", e.maxSteps)
	return output, nil
}

// executeTool runs one invocation and converts every failure mode into a
// ToolResult so the loop always keeps going. Unexpected errors are folded
// into an unsuccessful result at this boundary rather than aborting the run.
func (e *Engine) executeTool(ctx context.Context, session *Session, inv *core.ToolInvocation) (*core.ToolResult, core.ToolExecution) {
	execution := core.ToolExecution{Tool: inv.ToolName}

	tool, ok := e.registry.Get(inv.ToolName)
	if !ok {
		log.Printf("[ENGINE] unknown tool requested: %s", inv.ToolName)
		execution.Error = "unknown tool"
		return core.Fail(fmt.Sprintf("unknown tool: %s", inv.ToolName)), execution
	}

	start := time.Now()
	result, err := tool.Execute(ctx, &core.ToolParams{
		Address:   session.Address,
		Input:     inv.Args,
		RequestID: session.ID,
	})
	execution.DurationMs = time.Since(start).Milliseconds()
	execution.Input = json.RawMessage(inv.Args)

	if err != nil {
		log.Printf("[ENGINE] tool %s failed: %v", inv.ToolName, err)
		execution.Error = err.Error()
		return core.Fail(err.Error()), execution
	}
	if result == nil {
		execution.Error = "no result"
		return core.Fail("tool returned no result"), execution
	}
	if result.Success {
		execution.Result = result.Data
	} else {
		execution.Error = result.Error
	}
	return result, execution
}

// toModelResult converts a ToolResult into the content block sent back to
// the model. Successes send the data payload; failures send the error code
// with any structured detail, flagged as errors.
func toModelResult(blockID string, result *core.ToolResult) anthropic.ContentBlockParamUnion {
	if result.Success {
		data, err := json.Marshal(result.Data)
		if err != nil {
			return anthropic.NewToolResultBlock(blockID, "result serialization failed", true)
		}
		return anthropic.NewToolResultBlock(blockID, string(data), false)
	}

	if result.Data != nil {
		detail, err := json.Marshal(map[string]interface{}{
			"error": result.Error,
			"data":  result.Data,
		})
		if err == nil {
			return anthropic.NewToolResultBlock(blockID, string(detail), true)
		}
	}
	return anthropic.NewToolResultBlock(blockID, result.Error, true)
}
