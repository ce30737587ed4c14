// Package tool implements the capability boundary that lets agents invoke
// structured operations (computations, file access, code execution) with
// schema-validated arguments. Failures never cross the boundary as Go
// errors or panics: the registry folds every failure, including an unknown
// tool name, into ordinary result text that is fed back to the model as an
// observation.
package tool

import (
	"context"
	"fmt"
)

// Tool is the capability interface implemented by one variant per tool and
// dispatched through a registry built at startup.
type Tool interface {
	// Name returns the unique identifier used in tool call payloads
	// (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the
	// model so it knows when to use the tool.
	Description() string

	// Parameters returns a minimal JSON-Schema shaped map describing the
	// accepted arguments.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments and returns result
	// text. Errors are reported to the caller for folding into
	// observation text, never raised further.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolError represents a failure during tool execution with a stable code
// for categorization.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
