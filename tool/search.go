package tool

import (
	"context"
	"fmt"
)

// NewWebSearchTool returns the web search placeholder. It reports itself as
// unimplemented so the model can route around it instead of receiving
// fabricated results.
func NewWebSearchTool() *FunctionTool {
	return NewFunctionTool(
		"web_search",
		"Search the web for information. (Not yet implemented — placeholder.)",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "the search query",
				},
			},
			"required": []string{"query"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			return fmt.Sprintf(
				"[web_search is not implemented yet] Query was: '%s'. "+
					"This tool will be connected to a real search API in a later phase.", query), nil
		},
	)
}

// DefaultRegistry builds the standard tool set every run starts from.
func DefaultRegistry(optFns ...RegistryOption) *Registry {
	return NewRegistry([]Tool{
		NewCalculateTool(),
		NewReadFileTool(),
		NewWriteFileTool(),
		NewRunPythonTool(),
		NewWebSearchTool(),
	}, optFns...)
}
