package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reagent/model"
	"github.com/hupe1980/reagent/trace"
)

const singlePlan = `{"subtasks": [{"id": 1, "agent": "general", "task": "answer the question"}]}`

const twoStepPlan = `{"subtasks": [
	{"id": 1, "agent": "researcher", "task": "find facts"},
	{"id": 2, "agent": "coder", "task": "write code using the facts"}
]}`

func TestOrchestrator_SingleSubtaskReturnsVerbatim(t *testing.T) {
	m := model.NewMockModel(
		singlePlan,
		"Thought: easy\nAnswer: Paris",
	)
	o := New(m, nil, WithReview(false))

	got := o.Run(context.Background(), "capital of France?")
	assert.Equal(t, "Paris", got)
	// Plan call plus one agent call; no merge call for a single subtask.
	assert.Equal(t, 2, m.CallCount())

	steps := o.Trace()
	require.Len(t, steps, 4)
	assert.Equal(t, trace.KindPlan, steps[0].Kind)
	assert.Equal(t, trace.KindSubtask, steps[1].Kind)
	assert.Equal(t, "Paris", steps[1].Result)
	assert.Equal(t, trace.KindFinalAnswer, steps[2].Kind)
	assert.Equal(t, steps[1].ID, steps[2].Parent, "agent steps nest under the subtask")
	assert.Equal(t, trace.KindFinalAnswer, steps[3].Kind)
	assert.Equal(t, trace.Root, steps[3].Parent)
}

func TestOrchestrator_UnparsablePlanFallsBack(t *testing.T) {
	m := model.NewMockModel(
		"I would rather chat than plan.",
		"Answer: handled anyway",
	)
	o := New(m, nil, WithReview(false))

	got := o.Run(context.Background(), "original input")
	assert.Equal(t, "handled anyway", got)

	steps := o.Trace()
	sub := steps[1]
	assert.Equal(t, trace.KindSubtask, sub.Kind)
	assert.Equal(t, "1", sub.SubtaskID)
	assert.Equal(t, string(RoleGeneral), sub.Role)
	assert.Equal(t, "original input", sub.Task)

	// The fallback subtask's agent receives the original input verbatim.
	agentCall := m.Calls()[1].Messages
	assert.Equal(t, "original input", agentCall[1].Content)
}

func TestOrchestrator_PlanningTransportErrorAborts(t *testing.T) {
	m := model.NewMockModel()
	m.EnqueueError(errors.New("connection refused"))
	o := New(m, nil)

	got := o.Run(context.Background(), "task")
	assert.True(t, strings.HasPrefix(got, "Orchestrator error during planning:"))
	assert.Contains(t, got, model.ErrorTag)

	steps := o.Trace()
	require.Len(t, steps, 1)
	assert.Equal(t, trace.KindError, steps[0].Kind)
}

func TestOrchestrator_TwoSubtasksMerged(t *testing.T) {
	m := model.NewMockModel(
		twoStepPlan,
		"Answer: the facts",
		"Answer: the code",
		"Merged final answer.",
	)
	o := New(m, nil, WithReview(false))

	got := o.Run(context.Background(), "research then code")
	assert.Equal(t, "Merged final answer.", got)
	assert.Equal(t, 4, m.CallCount())

	// The merge call carries the original task and both results.
	mergeMsgs := m.Calls()[3].Messages
	assert.Equal(t, mergeSystemPrompt, mergeMsgs[0].Content)
	assert.Contains(t, mergeMsgs[1].Content, "research then code")
	assert.Contains(t, mergeMsgs[1].Content, "--- Subtask 1 (researcher) ---")
	assert.Contains(t, mergeMsgs[1].Content, "the facts")
	assert.Contains(t, mergeMsgs[1].Content, "--- Subtask 2 (coder) ---")
	assert.Contains(t, mergeMsgs[1].Content, "the code")
}

func TestOrchestrator_MergeTransportErrorConcatenates(t *testing.T) {
	m := model.NewMockModel(
		twoStepPlan,
		"Answer: first result",
		"Answer: second result",
	)
	m.EnqueueError(errors.New("merge call failed"))
	o := New(m, nil, WithReview(false))

	got := o.Run(context.Background(), "task")
	assert.Equal(t, "first result\n\nsecond result", got)
}

func TestOrchestrator_ContextCarriedAndTruncated(t *testing.T) {
	longResult := strings.Repeat("x", 600)
	m := model.NewMockModel(
		twoStepPlan,
		"Answer: "+longResult,
		"Answer: done",
		"merged",
	)
	o := New(m, nil, WithReview(false))

	o.Run(context.Background(), "task")

	// The second subtask's prompt carries a truncated first result.
	secondTask := m.Calls()[2].Messages[1].Content
	assert.Contains(t, secondTask, "write code using the facts")
	assert.Contains(t, secondTask, "Context from previous subtasks:")
	assert.Contains(t, secondTask, "[Subtask 1 — researcher]")
	assert.Contains(t, secondTask, strings.Repeat("x", 500))
	assert.NotContains(t, secondTask, strings.Repeat("x", 501))
}

func TestOrchestrator_ReviewPassAcceptsResult(t *testing.T) {
	m := model.NewMockModel(
		singlePlan,
		"Answer: candidate",
		"Thought: looks right\nAnswer: All good.\nVERDICT: PASS",
	)
	o := New(m, nil)

	got := o.Run(context.Background(), "task")
	assert.Equal(t, "candidate", got)
	assert.Equal(t, 3, m.CallCount())

	var review *trace.Step
	for _, s := range o.Trace() {
		if s.Kind == trace.KindReview {
			review = &s
			break
		}
	}
	require.NotNil(t, review)
	assert.Equal(t, "PASS", review.Verdict)
}

func TestOrchestrator_ReviewFeedbackTriggersRetry(t *testing.T) {
	m := model.NewMockModel(
		singlePlan,
		"Answer: sloppy first try",
		"Answer: VERDICT: FEEDBACK\n- Issue 1: missing detail",
		"Answer: improved result",
		"Answer: VERDICT: PASS",
	)
	o := New(m, nil)

	got := o.Run(context.Background(), "task")
	assert.Equal(t, "improved result", got)
	assert.Equal(t, 5, m.CallCount())

	// The retry prompt carries the prior attempt and the feedback.
	retryMsgs := m.Calls()[3].Messages
	assert.Contains(t, retryMsgs[1].Content, "sloppy first try")
	assert.Contains(t, retryMsgs[1].Content, "Issue 1: missing detail")

	var kinds []trace.Kind
	for _, s := range o.Trace() {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, trace.KindRetry)
}

func TestOrchestrator_ReviewCycleCeiling(t *testing.T) {
	feedback := "Answer: VERDICT: FEEDBACK\n- Issue 1: still wrong"
	m := model.NewMockModel(
		singlePlan,
		"Answer: attempt 0",
		feedback,
		"Answer: attempt 1",
		feedback,
		"Answer: attempt 2",
	)
	o := New(m, nil, WithMaxReviewCycles(2))

	got := o.Run(context.Background(), "task")
	// After the ceiling the last candidate is accepted without review.
	assert.Equal(t, "attempt 2", got)
	assert.Equal(t, 6, m.CallCount())

	var retries int
	for _, s := range o.Trace() {
		if s.Kind == trace.KindRetry {
			retries++
		}
	}
	assert.Equal(t, 2, retries)
}

func TestOrchestrator_ErroredSubtaskSkipsReview(t *testing.T) {
	m := model.NewMockModel(singlePlan)
	m.EnqueueError(errors.New("boom"))
	o := New(m, nil)

	got := o.Run(context.Background(), "task")
	assert.Contains(t, got, model.ErrorTag)
	// Plan call plus the failed agent call; no reviewer was consulted.
	assert.Equal(t, 2, m.CallCount())
}

func TestOrchestrator_EmptySubtaskTaskUsesInput(t *testing.T) {
	m := model.NewMockModel(
		`{"subtasks": [{"id": 1, "agent": "general", "task": ""}]}`,
		"Answer: ok",
	)
	o := New(m, nil, WithReview(false))

	o.Run(context.Background(), "the original question")
	agentCall := m.Calls()[1].Messages
	assert.Equal(t, "the original question", agentCall[1].Content)
}

func TestOrchestrator_RecorderResetBetweenRuns(t *testing.T) {
	m := model.NewMockModel(
		singlePlan, "Answer: one",
		singlePlan, "Answer: two",
	)
	o := New(m, nil, WithReview(false))

	o.Run(context.Background(), "first")
	first := len(o.Trace())
	o.Run(context.Background(), "second")
	assert.Equal(t, first, len(o.Trace()))
}
