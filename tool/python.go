package tool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// PythonOptions configure the code execution tool.
type PythonOptions struct {
	// Interpreter is the executable invoked with "-c <code>".
	Interpreter string
	// Timeout bounds one execution; the tool returns instead of hanging.
	Timeout time.Duration
}

// NewRunPythonTool returns a tool that executes Python code in a
// subprocess and returns captured stdout/stderr. Execution is bounded by a
// timeout so a runaway script becomes an ordinary error observation.
func NewRunPythonTool(optFns ...func(o *PythonOptions)) *FunctionTool {
	opts := PythonOptions{Interpreter: "python3", Timeout: 30 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	return NewFunctionTool(
		"run_python_code",
		"Execute Python code and return stdout/stderr. Use for calculations or testing code.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Python code to execute",
				},
			},
			"required": []string{"code"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			code, _ := args["code"].(string)

			execCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
			defer cancel()

			var stdout, stderr strings.Builder
			cmd := exec.CommandContext(execCtx, opts.Interpreter, "-c", code)
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
				return fmt.Sprintf("Error: code execution timed out after %s.", opts.Timeout), nil
			}

			var out strings.Builder
			if stdout.Len() > 0 {
				fmt.Fprintf(&out, "stdout:\n%s", stdout.String())
			}
			if stderr.Len() > 0 {
				fmt.Fprintf(&out, "stderr:\n%s", stderr.String())
			}
			if out.Len() == 0 {
				if err != nil {
					return fmt.Sprintf("Error running code: %v", err), nil
				}
				return "(no output)", nil
			}
			return out.String(), nil
		},
	)
}
