package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/reagent/model"
	"github.com/hupe1980/reagent/protocol"
	"github.com/hupe1980/reagent/tool"
	"github.com/hupe1980/reagent/trace"
)

func testRegistry() *tool.Registry {
	return tool.NewRegistry([]tool.Tool{tool.NewCalculateTool()})
}

func TestAgent_DirectAnswer(t *testing.T) {
	m := model.NewMockModel("Thought: that is trivial\nAnswer: 42")
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "what is 6*7?")
	assert.Equal(t, "42", got)

	steps := a.Trace()
	require.Len(t, steps, 1)
	assert.Equal(t, trace.KindFinalAnswer, steps[0].Kind)
	assert.Equal(t, 1, steps[0].Round)
	assert.Equal(t, "that is trivial", steps[0].Thought)
	assert.Equal(t, "42", steps[0].Answer)
}

func TestAgent_ToolRoundThenAnswer(t *testing.T) {
	m := model.NewMockModel(
		"Thought: I should compute this\nAct: [TOOL_CALL] {\"name\":\"calculate\",\"arguments\":{\"expression\":\"6*7\"}}",
		"Thought: got it\nAnswer: The answer is 42.",
	)
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "what is 6*7?")
	assert.Equal(t, "The answer is 42.", got)
	assert.Equal(t, 2, m.CallCount())

	// The observation is fed back as a tagged user message.
	second := m.Calls()[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Equal(t, protocol.ObserveMarker+" 42", last.Content)

	steps := a.Trace()
	require.Len(t, steps, 2)
	assert.Equal(t, trace.KindToolCall, steps[0].Kind)
	assert.Equal(t, "calculate", steps[0].Tool)
	assert.Equal(t, "42", steps[0].Result)
	assert.Equal(t, trace.KindFinalAnswer, steps[1].Kind)
}

func TestAgent_UnknownToolBecomesObservation(t *testing.T) {
	m := model.NewMockModel(
		"Thought: hm\nAct: [TOOL_CALL] {\"name\":\"summon_demon\",\"arguments\":{}}",
		"Thought: fine\nAnswer: done without it",
	)
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "task")
	assert.Equal(t, "done without it", got)

	steps := a.Trace()
	require.Len(t, steps, 2)
	assert.Contains(t, steps[0].Result, "Error: unknown tool 'summon_demon'")
}

func TestAgent_TransportErrorAborts(t *testing.T) {
	m := model.NewMockModel()
	m.EnqueueError(errors.New("connection refused"))
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "task")
	assert.True(t, strings.HasPrefix(got, ErrorPrefix))
	assert.Contains(t, got, "[ERROR]")
	assert.True(t, IsErrored(got))

	// The failed run still leaves a trace record behind.
	steps := a.Trace()
	require.Len(t, steps, 1)
	assert.Equal(t, trace.KindError, steps[0].Kind)
}

func TestAgent_GracefulDegradationWithoutMarkers(t *testing.T) {
	m := model.NewMockModel("I refuse to follow your format, the answer is blue.")
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "favorite color?")
	assert.Equal(t, "I refuse to follow your format, the answer is blue.", got)

	steps := a.Trace()
	require.Len(t, steps, 1)
	assert.Equal(t, trace.KindFinalAnswer, steps[0].Kind)
}

func TestAgent_AnswerWithToolCallMarkerActsFirst(t *testing.T) {
	// A response carrying both an Answer and a tool call must act, not
	// answer: the answer text may depend on a result that does not exist yet.
	m := model.NewMockModel(
		"Thought: compute then conclude\n"+
			"Act: [TOOL_CALL] {\"name\":\"calculate\",\"arguments\":{\"expression\":\"2+2\"}}\n"+
			"Answer: it is probably 5",
		"Thought: verified\nAnswer: it is 4",
	)
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "2+2?")
	assert.Equal(t, "it is 4", got)
	require.Len(t, a.Trace(), 2)
	assert.Equal(t, trace.KindToolCall, a.Trace()[0].Kind)
}

func TestAgent_RoundLimitForcesAnswer(t *testing.T) {
	toolCall := "Thought: again\nAct: [TOOL_CALL] {\"name\":\"calculate\",\"arguments\":{\"expression\":\"1+1\"}}"
	m := model.NewMockModel(toolCall, toolCall, "Thought: out of rounds\nAnswer: best effort")
	a := New("TestAgent", "You are helpful.", m, testRegistry(), WithMaxRounds(2))

	got := a.Run(context.Background(), "loop forever")
	assert.Equal(t, "best effort", got)
	// Two rounds plus exactly one forced completion.
	assert.Equal(t, 3, m.CallCount())

	// The forced call carries the corrective instruction.
	final := m.Calls()[2].Messages
	assert.Contains(t, final[len(final)-1].Content, "all available tool rounds")

	steps := a.Trace()
	require.Len(t, steps, 3)
	assert.Equal(t, trace.KindFinalAnswer, steps[2].Kind)
	assert.Equal(t, 3, steps[2].Round)
}

func TestAgent_ForcedAnswerWithoutMarker(t *testing.T) {
	toolCall := "Act: [TOOL_CALL] {\"name\":\"calculate\",\"arguments\":{\"expression\":\"1+1\"}}"
	m := model.NewMockModel(toolCall, "no marker, just text")
	a := New("TestAgent", "You are helpful.", m, testRegistry(), WithMaxRounds(1))

	got := a.Run(context.Background(), "task")
	assert.Equal(t, "no marker, just text", got)
}

func TestAgent_ReasoningPreambleIsStripped(t *testing.T) {
	m := model.NewMockModel("<think>internal musing with Answer: fake</think>\nThought: ok\nAnswer: real")
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	got := a.Run(context.Background(), "task")
	assert.Equal(t, "real", got)
}

func TestAgent_AnswerOnlyInstructions(t *testing.T) {
	m := model.NewMockModel("Answer: plain")
	a := New("TestAgent", "Just answer questions.", m, nil)

	a.Run(context.Background(), "task")
	system := m.Calls()[0].Messages[0]
	assert.Equal(t, model.RoleSystem, system.Role)
	assert.Equal(t, "Just answer questions.", system.Content,
		"no tool section for an answer-only agent")
}

func TestAgent_HistoryRebuiltPerRun(t *testing.T) {
	m := model.NewMockModel("Answer: one", "Answer: two")
	a := New("TestAgent", "You are helpful.", m, testRegistry())

	a.Run(context.Background(), "first")
	a.Run(context.Background(), "second")

	// The second run's history starts fresh: system + new task only.
	second := m.Calls()[1].Messages
	require.Len(t, second, 2)
	assert.Equal(t, "second", second[1].Content)

	// The private trace was reset too.
	require.Len(t, a.Trace(), 1)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("Base persona.", testRegistry())
	assert.Contains(t, prompt, "Base persona.")
	assert.Contains(t, prompt, "- calculate:")
	assert.Contains(t, prompt, protocol.ToolCallTag)
	assert.Contains(t, prompt, "Every response MUST start with \"Thought:\"")
}
