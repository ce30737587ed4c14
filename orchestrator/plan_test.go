package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	subtasks, ok := ParsePlan(`{"subtasks": [
		{"id": 1, "agent": "researcher", "task": "find facts"},
		{"id": 2, "agent": "coder", "task": "write code"}
	]}`)
	require.True(t, ok)
	require.Len(t, subtasks, 2)
	assert.Equal(t, Subtask{ID: "1", Role: RoleResearcher, Task: "find facts"}, subtasks[0])
	assert.Equal(t, Subtask{ID: "2", Role: RoleCoder, Task: "write code"}, subtasks[1])
}

func TestParsePlan_ReasoningPreamble(t *testing.T) {
	subtasks, ok := ParsePlan("<think>reason</think>\n{\"subtasks\":[{\"id\":1,\"agent\":\"coder\",\"task\":\"x\"}]}")
	require.True(t, ok)
	require.Len(t, subtasks, 1)
	assert.Equal(t, RoleCoder, subtasks[0].Role)
	assert.Equal(t, "x", subtasks[0].Task)
}

func TestParsePlan_SurroundingProse(t *testing.T) {
	subtasks, ok := ParsePlan(`Here is my plan:
{"subtasks": [{"id": "a", "agent": "general", "task": "answer"}]}
Hope that helps!`)
	require.True(t, ok)
	require.Len(t, subtasks, 1)
	assert.Equal(t, "a", subtasks[0].ID)
}

func TestParsePlan_UnknownRoleFallsBackToGeneral(t *testing.T) {
	subtasks, ok := ParsePlan(`{"subtasks": [{"id": 1, "agent": "astrologer", "task": "predict"}]}`)
	require.True(t, ok)
	assert.Equal(t, RoleGeneral, subtasks[0].Role)
}

func TestParsePlan_Failures(t *testing.T) {
	for name, text := range map[string]string{
		"no json":         "I cannot plan this.",
		"empty subtasks":  `{"subtasks": []}`,
		"missing key":     `{"tasks": [{"id": 1}]}`,
		"unbalanced json": `{"subtasks": [{"id": 1, "agent": "coder"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := ParsePlan(text)
			assert.False(t, ok)
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleResearcher, ParseRole(" Researcher "))
	assert.Equal(t, RoleCoder, ParseRole("CODER"))
	assert.Equal(t, RoleReviewer, ParseRole("reviewer"))
	assert.Equal(t, RoleGeneral, ParseRole("wizard"))
	assert.Equal(t, RoleGeneral, ParseRole(""))
}

func TestRoleToolNames_ReviewerIsInspectionOnly(t *testing.T) {
	names := RoleReviewer.ToolNames()
	assert.NotContains(t, names, "write_file")
	assert.Contains(t, names, "read_file")
	assert.Contains(t, names, "run_python_code")
}
