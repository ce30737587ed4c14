package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/reagent/agent"
	"github.com/hupe1980/reagent/logging"
	"github.com/hupe1980/reagent/model"
	"github.com/hupe1980/reagent/protocol"
	"github.com/hupe1980/reagent/tool"
	"github.com/hupe1980/reagent/trace"
)

const mergeSystemPrompt = "You merge specialist results into a clear final answer."

const mergePromptTemplate = `You are an Orchestrator merging results from specialist agents.

The user's original task was:
%s

Here are the results from each subtask:

%s

Your job: Combine these results into one clear, complete final answer for the user.
- Do NOT repeat the subtask structure, just give the final answer.
- If a subtask failed or returned an error, mention it briefly.
- Be direct and concise.`

// Options configure one Orchestrator instance.
type Options struct {
	// Review enables the verdict loop over each subtask result.
	Review bool
	// MaxReviewCycles bounds review rounds per subtask.
	MaxReviewCycles int
	// MaxRounds is the reasoning round ceiling for delegated agents.
	MaxRounds int
	// Temperature is the sampling temperature for delegated agents.
	Temperature float64
	// PlanTemperature is the lower temperature used for the structured
	// plan and merge calls.
	PlanTemperature float64
	// ContextLimit caps how many characters of each prior result are
	// carried into later subtasks.
	ContextLimit int
	// Logger receives structured progress records.
	Logger logging.Logger
}

// Option customizes an Orchestrator at construction time.
type Option func(*Options)

// WithReview toggles the review loop.
func WithReview(enabled bool) Option {
	return func(o *Options) { o.Review = enabled }
}

// WithMaxReviewCycles sets the review round ceiling per subtask.
func WithMaxReviewCycles(n int) Option {
	return func(o *Options) { o.MaxReviewCycles = n }
}

// WithMaxRounds sets the reasoning round ceiling for delegated agents.
func WithMaxRounds(n int) Option {
	return func(o *Options) { o.MaxRounds = n }
}

// WithTemperature sets the sampling temperature for delegated agents.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithContextLimit caps the per-result context carried between subtasks.
func WithContextLimit(n int) Option {
	return func(o *Options) { o.ContextLimit = n }
}

// WithLogger attaches a structured logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Orchestrator plans, delegates, reviews and merges one task at a time.
// All delegated agents record into the orchestrator's shared trace arena.
type Orchestrator struct {
	model  model.Model
	tools  *tool.Registry
	opts   Options
	logger logging.Logger
	rec    *trace.Recorder
}

// New constructs an Orchestrator over the given model boundary and tool
// registry (nil yields the default registry).
func New(m model.Model, tools *tool.Registry, optFns ...Option) *Orchestrator {
	opts := Options{
		Review:          true,
		MaxReviewCycles: 2,
		MaxRounds:       10,
		Temperature:     0.7,
		PlanTemperature: 0.3,
		ContextLimit:    500,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if tools == nil {
		tools = tool.DefaultRegistry()
	}

	return &Orchestrator{
		model:  m,
		tools:  tools,
		opts:   opts,
		logger: logging.With(opts.Logger, "agent", "Orchestrator"),
		rec:    trace.NewRecorder("Orchestrator"),
	}
}

// Trace returns the recorded steps of the last run.
func (o *Orchestrator) Trace() []trace.Step { return o.rec.Steps() }

// SaveTrace persists the last run's trace artifact.
func (o *Orchestrator) SaveTrace(dir string) (string, error) {
	return o.rec.Save(dir)
}

// Run drives the full plan, delegate, review, merge pipeline for one task
// and always returns a text answer. Only a transport failure during
// planning aborts the run.
func (o *Orchestrator) Run(ctx context.Context, input string) string {
	o.rec.Reset()
	o.logger.Info("run started", "task_chars", len(input))

	subtasks, planRaw, err := o.plan(ctx, input)
	if err != nil {
		tagged := model.Tagged(err)
		o.logger.Error("planning call failed", "error", err.Error())
		o.rec.Append(trace.Root, trace.Step{
			Kind:  trace.KindError,
			Agent: "Orchestrator",
			Error: tagged,
		})
		return fmt.Sprintf("Orchestrator error during planning: %s", tagged)
	}
	o.rec.Append(trace.Root, trace.Step{
		Kind:   trace.KindPlan,
		Agent:  "Orchestrator",
		Result: encodePlan(subtasks),
		Raw:    planRaw,
	})
	o.logger.Info("plan ready", "subtasks", len(subtasks))

	results := make([]string, 0, len(subtasks))
	for i, st := range subtasks {
		task := st.Task
		if task == "" {
			task = input
		}
		if i > 0 {
			task += "\n\nContext from previous subtasks:\n" + o.buildContext(subtasks[:i], results)
		}

		subStep := o.rec.Append(trace.Root, trace.Step{
			Kind:      trace.KindSubtask,
			Role:      string(st.Role),
			SubtaskID: st.ID,
			Task:      st.Task,
		})

		worker := o.newAgent(st.Role, st.ID, subStep)
		o.logger.Info("delegating subtask", "id", st.ID, "role", string(st.Role))
		result := worker.Run(ctx, task)
		o.rec.SetResult(subStep, result)

		if agent.IsErrored(result) {
			o.logger.Warn("subtask errored", "id", st.ID)
		} else if o.opts.Review {
			result = o.review(ctx, st, result, subStep)
			o.rec.SetResult(subStep, result)
		}

		results = append(results, result)
	}

	answer := o.merge(ctx, input, subtasks, results)
	o.rec.Append(trace.Root, trace.Step{
		Kind:   trace.KindFinalAnswer,
		Agent:  "Orchestrator",
		Answer: answer,
	})
	o.logger.Info("run finished", "subtasks", len(subtasks))
	return answer
}

// plan asks the model for a subtask decomposition. A parse failure is not
// an error: the whole input becomes a single general-purpose subtask.
func (o *Orchestrator) plan(ctx context.Context, input string) ([]Subtask, string, error) {
	raw, err := o.model.Complete(ctx, model.Request{
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: planPrompt},
			{Role: model.RoleUser, Content: input},
		},
		Temperature: o.opts.PlanTemperature,
	})
	if err != nil {
		return nil, "", err
	}

	subtasks, ok := ParsePlan(raw)
	if !ok {
		o.logger.Warn("plan parse failed, falling back to single subtask")
		subtasks = []Subtask{{ID: "1", Role: RoleGeneral, Task: input}}
	}
	return subtasks, raw, nil
}

// newAgent constructs a fresh role-scoped agent recording under parentStep.
func (o *Orchestrator) newAgent(role Role, id string, parentStep int) *agent.Agent {
	return agent.New(
		fmt.Sprintf("%s_%s", role.Title(), id),
		role.Persona(),
		o.model,
		o.tools.Subset(role.ToolNames()...),
		agent.WithMaxRounds(o.opts.MaxRounds),
		agent.WithTemperature(o.opts.Temperature),
		agent.WithLogger(o.opts.Logger),
		agent.WithRecorder(o.rec, parentStep),
	)
}

// buildContext renders prior subtask results as a context block, each entry
// truncated to the configured limit.
func (o *Orchestrator) buildContext(done []Subtask, results []string) string {
	var b strings.Builder
	for i, st := range done {
		result := results[i]
		if len(result) > o.opts.ContextLimit {
			result = result[:o.opts.ContextLimit]
		}
		fmt.Fprintf(&b, "[Subtask %s — %s]\n%s\n\n", st.ID, st.Role, result)
	}
	return b.String()
}

// merge combines subtask results into the final answer. A single subtask
// returns its result verbatim without a model call; a failing merge call
// degrades to concatenation.
func (o *Orchestrator) merge(ctx context.Context, input string, subtasks []Subtask, results []string) string {
	if len(results) == 1 {
		return results[0]
	}

	var resultsText strings.Builder
	for i, st := range subtasks {
		fmt.Fprintf(&resultsText, "--- Subtask %s (%s) ---\nTask: %s\nResult:\n%s\n\n", st.ID, st.Role, st.Task, results[i])
	}

	merged, err := o.model.Complete(ctx, model.Request{
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: mergeSystemPrompt},
			{Role: model.RoleUser, Content: fmt.Sprintf(mergePromptTemplate, input, resultsText.String())},
		},
		Temperature: o.opts.PlanTemperature,
	})
	if err != nil {
		tagged := model.Tagged(err)
		o.logger.Error("merge call failed, concatenating results", "error", err.Error())
		o.rec.Append(trace.Root, trace.Step{
			Kind:  trace.KindError,
			Agent: "Orchestrator",
			Error: tagged,
		})
		return strings.Join(results, "\n\n")
	}

	_, visible := protocol.StripReasoning(merged)
	return strings.TrimSpace(visible)
}
