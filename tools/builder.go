package tools

import (
	"context"

	"github.com/defipilot/sui-agent/core"
)

// Handler executes a tool call.
type Handler func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error)

// Builder assembles a tool from its name, description, schema and handler.
type Builder struct {
	name        string
	description string
	schema      map[string]interface{}
	handler     Handler
}

// New starts building a tool with the given name.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Description sets the tool description shown to the model.
func (b *Builder) Description(d string) *Builder {
	b.description = d
	return b
}

// Schema sets the JSON Schema for the tool's input.
func (b *Builder) Schema(s map[string]interface{}) *Builder {
	b.schema = s
	return b
}

// Handler sets the execution function.
func (b *Builder) Handler(h Handler) *Builder {
	b.handler = h
	return b
}

// Build finalizes the tool.
func (b *Builder) Build() core.Tool {
	if b.schema == nil {
		b.schema = ObjectSchema(map[string]interface{}{})
	}
	return &builtTool{
		name:        b.name,
		description: b.description,
		schema:      b.schema,
		handler:     b.handler,
	}
}

type builtTool struct {
	name        string
	description string
	schema      map[string]interface{}
	handler     Handler
}

func (t *builtTool) Name() string                   { return t.name }
func (t *builtTool) Description() string            { return t.description }
func (t *builtTool) Schema() map[string]interface{} { return t.schema }

func (t *builtTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	return t.handler(ctx, params)
}
