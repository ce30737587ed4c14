package orchestrator

import (
	"encoding/json"
	"strconv"

	"github.com/hupe1980/reagent/protocol"
)

// planPrompt instructs the model to decompose a task into subtasks.
const planPrompt = `You are an Orchestrator. Your job is to break a user's task into subtasks and assign each to the right specialist agent.

Available agents:
- researcher: Finds and summarizes information. Has tools: web_search, read_file.
- coder: Writes, runs, and debugs Python code. Has tools: run_python_code, write_file, read_file.
- general: Handles any task that does not clearly fit researcher or coder.

RULES:
1. Analyze the user's task and decide what subtasks are needed.
2. Output a JSON plan — ONLY the JSON, nothing else.
3. Each subtask must have: "id" (number), "agent" (string), "task" (string).
4. Subtasks run in order. Later subtasks can say "using the result from subtask 1".
5. Use the fewest subtasks necessary. Simple tasks may need only 1.
6. If the task is a simple question you can answer directly, use one subtask with agent "general".

OUTPUT FORMAT (JSON only, no markdown, no explanation):
{
  "subtasks": [
    {"id": 1, "agent": "researcher", "task": "Find information about X"},
    {"id": 2, "agent": "coder", "task": "Using the research results, write code to do Y"}
  ]
}`

// Subtask is one unit of delegated work with an assigned role. IDs are
// caller-supplied opaque labels, not indices: they are never sorted or
// required to be contiguous.
type Subtask struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Task string `json:"task"`
}

// ParsePlan extracts the subtasks list from planner output. Any reasoning
// preamble is stripped, the first balanced JSON object decoded and its
// "subtasks" key required to be a non-empty list. Every failure mode
// yields "no plan" so the caller can substitute the fallback subtask.
func ParsePlan(text string) ([]Subtask, bool) {
	_, clean := protocol.StripReasoning(text)

	raw, ok := protocol.ExtractFirstJSONObject(clean)
	if !ok {
		return nil, false
	}

	var payload struct {
		Subtasks []struct {
			ID    json.RawMessage `json:"id"`
			Agent string          `json:"agent"`
			Task  string          `json:"task"`
		} `json:"subtasks"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	if len(payload.Subtasks) == 0 {
		return nil, false
	}

	subtasks := make([]Subtask, 0, len(payload.Subtasks))
	for _, st := range payload.Subtasks {
		subtasks = append(subtasks, Subtask{
			ID:   decodeID(st.ID),
			Role: ParseRole(st.Agent),
			Task: st.Task,
		})
	}
	return subtasks, true
}

// decodeID accepts a JSON number or string and yields an opaque label.
func decodeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "?"
}

// encodePlan renders the parsed plan for the trace record.
func encodePlan(subtasks []Subtask) string {
	data, err := json.Marshal(subtasks)
	if err != nil {
		return strconv.Itoa(len(subtasks)) + " subtasks"
	}
	return string(data)
}
