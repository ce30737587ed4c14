package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/reagent/logging"
)

// Registry is a name-keyed dispatcher over an immutable-after-startup set
// of tools. It preserves registration order so generated prompt text is
// deterministic.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// RegistryOption customizes a Registry at construction time.
type RegistryOption func(*Registry)

// WithLogger attaches a structured logger used for execution records.
func WithLogger(logger logging.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry builds a registry from the given tools.
func NewRegistry(tools []Tool, optFns ...RegistryOption) *Registry {
	r := &Registry{tools: map[string]Tool{}, logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(r)
	}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Subset returns a new registry restricted to the named tools, sharing the
// same logger. Unknown names are skipped, matching the tolerant behavior of
// the prompt builder.
func (r *Registry) Subset(names ...string) *Registry {
	sub := &Registry{tools: map[string]Tool{}, logger: r.logger}
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			sub.Register(t)
		}
	}
	return sub
}

// Execute dispatches a call by name and always returns observation text.
// An unknown tool name, validation failure or execution failure is itself a
// normal textual result, never an error that could abort the agent loop.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool '%s'. Available tools: %v", name, r.order)
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed", "tool", name, "error", err.Error())
		return fmt.Sprintf("Error executing tool '%s': %v", name, err)
	}

	r.logger.Debug("tool call succeeded",
		"tool", name, "duration_ms", time.Since(start).Milliseconds())
	return result
}

// Describe renders a plain-text listing of the registered tools for
// inclusion in a system prompt: one line per tool plus its argument schema.
func (r *Registry) Describe() string {
	var lines []string
	for _, name := range r.order {
		t := r.tools[name]
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
		if args := describeArguments(t.Parameters()); args != "" {
			lines = append(lines, "  Arguments: "+args)
		}
	}
	return strings.Join(lines, "\n")
}

// describeArguments flattens a parameter schema into the compact
// {"name": "type — description"} form the prompt uses.
func describeArguments(schema map[string]any) string {
	properties, _ := schema["properties"].(map[string]any)
	if len(properties) == 0 {
		return ""
	}

	flat := map[string]string{}
	for name, raw := range properties {
		prop, _ := raw.(map[string]any)
		typ, _ := prop["type"].(string)
		desc, _ := prop["description"].(string)
		if desc != "" {
			flat[name] = fmt.Sprintf("%s — %s", typ, desc)
		} else {
			flat[name] = typ
		}
	}

	encoded, err := json.Marshal(flat)
	if err != nil {
		return ""
	}
	return string(encoded)
}
