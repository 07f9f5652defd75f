package domain

import (
	"context"
	"fmt"
	"sort"
)

// ToolHandler executes a tool call with free-form string arguments and
// returns its textual result.
type ToolHandler func(ctx context.Context, args map[string]string) (string, error)

// Tool is one named capability: a human-readable schema plus a handler.
type Tool struct {
	// Name identifies the tool within a set.
	Name string

	// Description says what the tool does, for prompt assembly.
	Description string

	// Params documents the accepted argument names.
	Params []string

	// Handler executes the tool.
	Handler ToolHandler
}

// Toolset is a capability set: a mapping from tool name to tool.
// Capabilities compose by union rather than by subclassing, so adding a
// tool is data, not a type hierarchy.
type Toolset map[string]Tool

// NewToolset builds a toolset from tools. Later duplicates win.
func NewToolset(tools ...Tool) Toolset {
	ts := make(Toolset, len(tools))
	for _, tool := range tools {
		ts[tool.Name] = tool
	}
	return ts
}

// Union returns a new toolset containing the tools of both sets.
// On name collision the other set wins.
func (ts Toolset) Union(other Toolset) Toolset {
	merged := make(Toolset, len(ts)+len(other))
	for name, tool := range ts {
		merged[name] = tool
	}
	for name, tool := range other {
		merged[name] = tool
	}
	return merged
}

// Names returns the tool names in sorted order.
func (ts Toolset) Names() []string {
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call executes the named tool.
func (ts Toolset) Call(ctx context.Context, name string, args map[string]string) (string, error) {
	tool, ok := ts[name]
	if !ok {
		return "", fmt.Errorf("tool %q: %w", name, ErrNotFound)
	}
	return tool.Handler(ctx, args)
}
