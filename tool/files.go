package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// maxReadSize bounds read_file results so one observation cannot blow up
// the conversation.
const maxReadSize = 100_000

// NewReadFileTool returns a tool that reads a local text file.
func NewReadFileTool() *FunctionTool {
	return NewFunctionTool(
		"read_file",
		"Read the contents of a local file and return its text.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "path to the file to read",
				},
			},
			"required": []string{"file_path"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Sprintf("Error: file not found at %s", path), nil
			}
			if info.IsDir() {
				return fmt.Sprintf("Error: %s is not a file", path), nil
			}
			if info.Size() > maxReadSize {
				return fmt.Sprintf("Error: file too large (%d bytes). Max 100KB.", info.Size()), nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Sprintf("Error reading file: %v", err), nil
			}
			return string(data), nil
		},
	)
}

// NewWriteFileTool returns a tool that writes text to a file, creating
// parent directories as needed.
func NewWriteFileTool() *FunctionTool {
	return NewFunctionTool(
		"write_file",
		"Write content to a file. Creates the file and parent directories if needed.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "path to write to",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "text to write",
				},
			},
			"required": []string{"file_path", "content"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			content, _ := args["content"].(string)

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Sprintf("Error writing file: %v", err), nil
				}
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Sprintf("Error writing file: %v", err), nil
			}
			return fmt.Sprintf("Successfully wrote %d characters to %s", len(content), path), nil
		},
	)
}
