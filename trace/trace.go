// Package trace records the structured, append-only history of one run.
//
// Steps live in a flat arena with explicit parent references instead of
// nested containers: a subtask step is the parent of the delegated agent's
// tool_call steps, a review step is the parent of the reviewer's, and so
// on. The flat layout allows indexed lookup and streams to the persisted
// artifact without recursive marshaling. The artifact schema (§Document) is
// stable for external tooling.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates step record types.
type Kind string

const (
	// KindPlan records the planning phase of an orchestrated run.
	KindPlan Kind = "plan"
	// KindSubtask records one delegated subtask and its result.
	KindSubtask Kind = "subtask"
	// KindReview records one reviewer verdict over a subtask result.
	KindReview Kind = "review"
	// KindRetry records a corrective re-run after reviewer feedback.
	KindRetry Kind = "retry"
	// KindToolCall records one agent loop round that invoked a tool.
	KindToolCall Kind = "tool_call"
	// KindFinalAnswer records a terminal answer at any level.
	KindFinalAnswer Kind = "final_answer"
	// KindError records a failure that was absorbed or propagated.
	KindError Kind = "error"
)

// Root is the parent reference of top-level steps.
const Root = -1

// Step is one node in the flat run trace arena. Only the fields relevant
// to the step's kind are populated.
type Step struct {
	ID     int  `json:"id"`
	Parent int  `json:"parent"`
	Kind   Kind `json:"kind"`

	Agent     string         `json:"agent,omitempty"`
	Role      string         `json:"role,omitempty"`
	SubtaskID string         `json:"subtask_id,omitempty"`
	Task      string         `json:"task,omitempty"`
	Round     int            `json:"round,omitempty"`
	Thought   string         `json:"thought,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result,omitempty"`
	Answer    string         `json:"answer,omitempty"`
	Verdict   string         `json:"verdict,omitempty"`
	Feedback  string         `json:"feedback,omitempty"`
	Error     string         `json:"error,omitempty"`
	Raw       string         `json:"raw,omitempty"`
}

// Document is the persisted artifact for one run.
type Document struct {
	ID        string `json:"id"`
	Agent     string `json:"agent"`
	Timestamp string `json:"timestamp"`
	Steps     int    `json:"steps"`
	Trace     []Step `json:"trace"`
}

// DefaultDir is the conventional artifact location.
const DefaultDir = "logs/agent_traces"

// Recorder is an append-only step arena owned exclusively by one running
// loop or orchestrator instance. It is not safe for concurrent use and does
// not need to be: execution is strictly sequential.
type Recorder struct {
	name  string
	steps []Step
}

// NewRecorder creates a Recorder labeled with the owning identity.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// Name returns the identity label of the owning run.
func (r *Recorder) Name() string { return r.name }

// Append assigns the next arena ID to step, links it under parent (Root for
// top-level steps) and returns the assigned ID for use as a parent
// reference by nested steps.
func (r *Recorder) Append(parent int, step Step) int {
	step.ID = len(r.steps)
	step.Parent = parent
	r.steps = append(r.steps, step)
	return step.ID
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int { return len(r.steps) }

// Steps returns a copy of the recorded steps in append order.
func (r *Recorder) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Children returns the steps directly linked under parent, in append order.
func (r *Recorder) Children(parent int) []Step {
	var out []Step
	for _, s := range r.steps {
		if s.Parent == parent {
			out = append(out, s)
		}
	}
	return out
}

// SetResult fills the result field of an already-appended step once its
// outcome is known. Steps are never removed or reordered; a parent step is
// appended before the work it covers so nested steps can reference it, and
// completed here afterwards.
func (r *Recorder) SetResult(id int, result string) {
	if id >= 0 && id < len(r.steps) {
		r.steps[id].Result = result
	}
}

// SetVerdict fills the verdict fields of an already-appended review step.
func (r *Recorder) SetVerdict(id int, verdict, feedback string) {
	if id >= 0 && id < len(r.steps) {
		r.steps[id].Verdict = verdict
		r.steps[id].Feedback = feedback
	}
}

// Reset discards all recorded steps. Called at the start of each run so a
// reused instance never leaks history across runs.
func (r *Recorder) Reset() { r.steps = nil }

// Document assembles the persistable artifact for the current steps.
func (r *Recorder) Document() Document {
	return Document{
		ID:        uuid.NewString(),
		Agent:     r.name,
		Timestamp: time.Now().Format("20060102_150405"),
		Steps:     len(r.steps),
		Trace:     r.Steps(),
	}
}

// Save writes the artifact as indented JSON under dir (DefaultDir when
// empty) and returns the written path.
func (r *Recorder) Save(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create trace dir: %w", err)
	}

	doc := r.Document()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode trace: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", r.name, doc.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write trace: %w", err)
	}
	return path, nil
}
