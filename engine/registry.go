package engine

import (
	"sort"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/defipilot/sui-agent/core"
)

// ToolRegistry holds the tools exposed to the model.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]core.Tool
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]core.Tool)}
}

// Register adds tools to the registry, replacing any with the same name.
func (r *ToolRegistry) Register(tools ...core.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tool := range tools {
		r.tools[tool.Name()] = tool
	}
}

// Get looks up a tool by name.
func (r *ToolRegistry) Get(name string) (core.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered tool names, sorted.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToAPITools converts the registered tools to Anthropic API tool params, in
// name order so request payloads are stable.
func (r *ToolRegistry) ToAPITools() []anthropic.ToolUnionParam {
	return r.ToAPIToolsFiltered(nil)
}

// Filter selects a subset of tools by name.
type Filter func(name string) bool

// FilterByNames keeps only the named tools.
func FilterByNames(names ...string) Filter {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	return func(name string) bool {
		_, ok := allowed[name]
		return ok
	}
}

// ToAPIToolsFiltered converts the registered tools passing the filter. A nil
// filter passes everything.
func (r *ToolRegistry) ToAPIToolsFiltered(filter Filter) []anthropic.ToolUnionParam {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		if filter == nil || filter(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	apiTools := make([]anthropic.ToolUnionParam, 0, len(names))
	for _, name := range names {
		tool := r.tools[name]
		schema := tool.Schema()

		param := anthropic.ToolParam{
			Name:        tool.Name(),
			Description: anthropic.String(tool.Description()),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
			},
		}
		if required, ok := schema["required"].([]string); ok {
			param.InputSchema.Required = required
		}
		apiTools = append(apiTools, anthropic.ToolUnionParam{OfTool: &param})
	}
	return apiTools
}
