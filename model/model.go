package model

import (
	"context"
	"fmt"
	"strings"
)

// Conversation roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request captures one completion call: the full ordered history plus
// sampling parameters. Providers apply their own defaults for zero values.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int64
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface the agent loop and orchestrator need to
// drive generation. Complete blocks until the provider returns; the
// sequential execution model keeps exactly one call in flight at a time.
type Model interface {
	Complete(ctx context.Context, req Request) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrorTag prefixes error text that crosses the boundary as conversation
// content instead of a Go error.
const ErrorTag = "[ERROR]"

// Tagged renders a transport error in the shared error-text convention.
func Tagged(err error) string {
	return fmt.Sprintf("%s %v", ErrorTag, err)
}

// IsTagged reports whether text carries the boundary error convention.
func IsTagged(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), ErrorTag)
}
