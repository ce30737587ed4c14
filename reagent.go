// Package reagent provides a high-level façade over the agent loop and the
// orchestrator pipeline. Most applications interact with this package by:
//  1. Creating a ReAgent via New() around a model boundary
//  2. Running tasks through RunSingle (one agent, every tool) or RunMulti
//     (plan, delegate, review, merge)
//  3. Persisting the run trace via SaveTrace
//
// The façade wires the default tool registry and safe local defaults; both
// runners always return a text answer, degrading to tagged error text on
// transport failure.
package reagent

import (
	"context"

	"github.com/hupe1980/reagent/agent"
	"github.com/hupe1980/reagent/logging"
	"github.com/hupe1980/reagent/model"
	"github.com/hupe1980/reagent/orchestrator"
	"github.com/hupe1980/reagent/tool"
)

// singleAgentPrompt is the persona of the all-tools single-agent mode.
const singleAgentPrompt = `You are a helpful assistant with access to tools.

When a user asks you something, decide if you need to use a tool or can answer directly.
Always think step by step before acting. Explain your reasoning clearly.
After gathering all information you need, give a clear, direct final answer.`

// Options configure the ReAgent instance.
type Options struct {
	// Tools defaults to the full built-in registry if not provided.
	Tools *tool.Registry
	// MaxRounds is the reasoning round ceiling for every agent.
	MaxRounds int
	// Review enables the verdict loop in multi-agent mode.
	Review bool
	// MaxReviewCycles bounds review rounds per subtask.
	MaxReviewCycles int
	// TraceDir is where SaveTrace writes run artifacts.
	TraceDir string
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ReAgent is the high-level façade aggregating the single-agent runner and
// the orchestrator.
type ReAgent struct {
	opts   Options
	single *agent.Agent
	orch   *orchestrator.Orchestrator
}

// New creates a ReAgent over the given model boundary with optional
// overrides. Any unset option gets a safe local default.
func New(m model.Model, optFns ...func(o *Options)) *ReAgent {
	opts := Options{
		MaxRounds:       10,
		Review:          true,
		MaxReviewCycles: 2,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tools == nil {
		opts.Tools = tool.DefaultRegistry()
	}

	single := agent.New("GeneralAgent", singleAgentPrompt, m, opts.Tools,
		agent.WithMaxRounds(opts.MaxRounds),
		agent.WithLogger(opts.Logger),
	)

	orch := orchestrator.New(m, opts.Tools,
		orchestrator.WithMaxRounds(opts.MaxRounds),
		orchestrator.WithReview(opts.Review),
		orchestrator.WithMaxReviewCycles(opts.MaxReviewCycles),
		orchestrator.WithLogger(opts.Logger),
	)

	return &ReAgent{opts: opts, single: single, orch: orch}
}

// RunSingle routes the task through one agent holding the full tool set.
func (r *ReAgent) RunSingle(ctx context.Context, task string) string {
	return r.single.Run(ctx, task)
}

// RunMulti routes the task through the orchestrator pipeline.
func (r *ReAgent) RunMulti(ctx context.Context, task string) string {
	return r.orch.Run(ctx, task)
}

// SaveSingleTrace persists the single-agent trace and returns its path.
func (r *ReAgent) SaveSingleTrace() (string, error) {
	return r.single.SaveTrace(r.opts.TraceDir)
}

// SaveMultiTrace persists the orchestrator trace and returns its path.
func (r *ReAgent) SaveMultiTrace() (string, error) {
	return r.orch.SaveTrace(r.opts.TraceDir)
}
