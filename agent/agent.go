package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/reagent/logging"
	"github.com/hupe1980/reagent/model"
	"github.com/hupe1980/reagent/protocol"
	"github.com/hupe1980/reagent/tool"
	"github.com/hupe1980/reagent/trace"
)

// ErrorPrefix tags a run result that aborted on a transport failure. It is
// part of the error-text convention shared with the orchestrator.
const ErrorPrefix = "Agent error:"

// Options configure one Agent instance. Limits are explicit configuration,
// never ambient globals, so concurrent runs with different settings stay
// independent.
type Options struct {
	// MaxRounds bounds the reasoning loop.
	MaxRounds int
	// Temperature is passed through to every model call.
	Temperature float64
	// Logger receives structured progress records.
	Logger logging.Logger
	// Recorder, when set, is a shared arena (typically the
	// orchestrator's); ParentStep links this run's steps under the
	// caller's step. When nil the agent owns a private recorder.
	Recorder   *trace.Recorder
	ParentStep int
}

// Option customizes an Agent at construction time.
type Option func(*Options)

// WithMaxRounds sets the reasoning round ceiling.
func WithMaxRounds(n int) Option {
	return func(o *Options) { o.MaxRounds = n }
}

// WithTemperature sets the sampling temperature for every model call.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithLogger attaches a structured logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithRecorder links the run's trace steps into a shared arena under the
// given parent step.
func WithRecorder(rec *trace.Recorder, parentStep int) Option {
	return func(o *Options) {
		o.Recorder = rec
		o.ParentStep = parentStep
	}
}

// Agent owns one conversation with the model boundary. History and trace
// are rebuilt fresh on every Run and never shared across instances.
type Agent struct {
	name         string
	instructions string
	model        model.Model
	tools        *tool.Registry
	opts         Options

	rec         *trace.Recorder
	parentStep  int
	ownRecorder bool
}

// New constructs an Agent from an identity label, base role instructions,
// the model boundary and a tool allow-list (nil or empty registry yields an
// answer-only agent with no tool section in its instructions).
func New(name, instructions string, m model.Model, tools *tool.Registry, optFns ...Option) *Agent {
	opts := Options{
		MaxRounds:   10,
		Temperature: 0.7,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if tools == nil {
		tools = tool.NewRegistry(nil)
	}

	a := &Agent{
		name:         name,
		instructions: BuildSystemPrompt(instructions, tools),
		model:        m,
		tools:        tools,
		opts:         opts,
		rec:          opts.Recorder,
		parentStep:   opts.ParentStep,
	}
	if a.rec == nil {
		a.rec = trace.NewRecorder(name)
		a.parentStep = trace.Root
		a.ownRecorder = true
	}
	return a
}

// Name returns the agent's identity label.
func (a *Agent) Name() string { return a.name }

// Trace returns the steps this agent recorded. For a shared recorder this
// is the slice of steps linked under the caller's parent step.
func (a *Agent) Trace() []trace.Step {
	if a.ownRecorder {
		return a.rec.Steps()
	}
	return a.rec.Children(a.parentStep)
}

// SaveTrace persists the agent's own trace artifact. Agents wired into a
// shared recorder leave persistence to its owner.
func (a *Agent) SaveTrace(dir string) (string, error) {
	if !a.ownRecorder {
		return "", fmt.Errorf("trace is owned by a shared recorder")
	}
	return a.rec.Save(dir)
}

// Run drives the ReAct loop for one task and always returns a text answer.
// Transport failures abort the run with ErrorPrefix-tagged text; every
// other irregularity is absorbed into the loop.
func (a *Agent) Run(ctx context.Context, task string) string {
	if a.ownRecorder {
		a.rec.Reset()
	}

	history := []model.Message{
		{Role: model.RoleSystem, Content: a.instructions},
		{Role: model.RoleUser, Content: task},
	}

	logger := logging.With(a.opts.Logger, "agent", a.name)
	logger.Info("agent run started", "task_chars", len(task))

	for round := 1; round <= a.opts.MaxRounds; round++ {
		text, err := a.model.Complete(ctx, model.Request{
			Messages:    history,
			Temperature: a.opts.Temperature,
		})
		if err != nil {
			// No retry at this layer; retries are the boundary's concern.
			tagged := model.Tagged(err)
			logger.Error("model call failed", "round", round, "error", err.Error())
			a.rec.Append(a.parentStep, trace.Step{
				Kind:  trace.KindError,
				Agent: a.name,
				Round: round,
				Error: tagged,
			})
			return fmt.Sprintf("%s %s", ErrorPrefix, tagged)
		}

		preamble, visible := protocol.StripReasoning(text)
		if preamble != "" {
			logger.Debug("reasoning preamble stripped", "round", round, "chars", len(preamble))
		}

		thought, _ := protocol.ParseThought(visible)
		if thought != "" {
			logger.Debug("thought", "round", round, "text", thought)
		}

		if answer, ok := protocol.ParseAnswer(visible); ok && !strings.Contains(visible, protocol.ToolCallTag) {
			a.rec.Append(a.parentStep, trace.Step{
				Kind:    trace.KindFinalAnswer,
				Agent:   a.name,
				Round:   round,
				Thought: thought,
				Answer:  answer,
				Raw:     text,
			})
			logger.Info("agent run finished", "rounds", round)
			return answer
		}

		call, ok := protocol.ParseToolCall(visible)
		if !ok {
			// No Answer and no tool call: the model ignored the grammar,
			// so the visible text is the best available final answer.
			answer := protocol.CleanFinalAnswer(visible)
			a.rec.Append(a.parentStep, trace.Step{
				Kind:    trace.KindFinalAnswer,
				Agent:   a.name,
				Round:   round,
				Thought: thought,
				Answer:  answer,
				Raw:     text,
			})
			logger.Info("agent run finished without answer marker", "rounds", round)
			return answer
		}

		logger.Info("tool call", "round", round, "tool", call.Name)
		result := a.tools.Execute(ctx, call.Name, call.Arguments)

		history = append(history,
			model.Message{Role: model.RoleAssistant, Content: text},
			model.Message{Role: model.RoleUser, Content: protocol.ObserveMarker + " " + result},
		)
		a.rec.Append(a.parentStep, trace.Step{
			Kind:      trace.KindToolCall,
			Agent:     a.name,
			Round:     round,
			Thought:   thought,
			Tool:      call.Name,
			Arguments: call.Arguments,
			Result:    result,
			Raw:       text,
		})
	}

	logger.Warn("round limit reached, forcing final answer", "max_rounds", a.opts.MaxRounds)
	return a.forceFinalAnswer(ctx, history, logger)
}

// forceFinalAnswer issues one last answer-only completion after the round
// ceiling so the loop still terminates with a best-effort answer.
func (a *Agent) forceFinalAnswer(ctx context.Context, history []model.Message, logger logging.Logger) string {
	history = append(history, model.Message{Role: model.RoleUser, Content: forcedAnswerPrompt})

	text, err := a.model.Complete(ctx, model.Request{
		Messages:    history,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		tagged := model.Tagged(err)
		logger.Error("forced answer call failed", "error", err.Error())
		a.rec.Append(a.parentStep, trace.Step{
			Kind:  trace.KindError,
			Agent: a.name,
			Round: a.opts.MaxRounds + 1,
			Error: tagged,
		})
		return fmt.Sprintf("%s %s", ErrorPrefix, tagged)
	}

	_, visible := protocol.StripReasoning(text)
	answer, ok := protocol.ParseAnswer(visible)
	if !ok {
		answer = protocol.CleanFinalAnswer(visible)
	}

	a.rec.Append(a.parentStep, trace.Step{
		Kind:   trace.KindFinalAnswer,
		Agent:  a.name,
		Round:  a.opts.MaxRounds + 1,
		Answer: answer,
		Raw:    text,
	})
	return answer
}

// IsErrored reports whether a run result carries one of the recognized
// error-text conventions.
func IsErrored(result string) bool {
	return strings.HasPrefix(result, ErrorPrefix) || model.IsTagged(result)
}
