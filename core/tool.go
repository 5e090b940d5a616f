package core

import (
	"context"
	"encoding/json"
)

// Tool is one registered financial action. Implementations return expected
// domain failures inside the ToolResult (Success=false plus a stable error
// code); only unexpected failures (network, upstream SDK) surface as a Go
// error, and the engine converts those at the turn boundary.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]interface{}
	Execute(ctx context.Context, params *ToolParams) (*ToolResult, error)
}

// ToolParams carries the validated input of a single invocation.
type ToolParams struct {
	// Address is the caller's wallet address. May be empty when no wallet
	// is connected; tools that need it must fail with a domain error.
	Address string

	// Input is the schema-validated argument object from the model.
	Input json.RawMessage

	// RequestID identifies the session/turn for logging.
	RequestID string
}

// ToolResult is the discriminated outcome of a tool execution.
//
// Success=true means the operation's parameters or unsigned transaction were
// computed, never that anything was executed on chain. Signing is a
// separate user-approved step.
type ToolResult struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Stable error codes for expected domain failures. Renderers key remediation
// UI off these, so they are part of the tool contract.
const (
	ErrInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrNoRouteFound        = "NO_ROUTE_FOUND"
	ErrPoolNotFound        = "POOL_NOT_FOUND"
	ErrFarmNotFound        = "FARM_NOT_FOUND"
	ErrNoCoinsFound        = "NO_COINS_FOUND"
	ErrWalletRequired      = "WALLET_REQUIRED"
)

// Ok wraps a success payload.
func Ok(data interface{}) *ToolResult {
	return &ToolResult{Success: true, Data: data}
}

// Fail wraps an expected domain failure.
func Fail(code string) *ToolResult {
	return &ToolResult{Success: false, Error: code}
}

// FailData wraps an expected domain failure that carries structured detail
// (e.g. the exact set of under-funded coin types).
func FailData(code string, data interface{}) *ToolResult {
	return &ToolResult{Success: false, Error: code, Data: data}
}

// ToolExecution records one completed invocation for the run output.
type ToolExecution struct {
	Tool       string      `json:"tool"`
	Input      interface{} `json:"input,omitempty"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMs int64       `json:"duration_ms"`
}

// TokenUsage tracks model token consumption for a run.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
