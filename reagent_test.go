package reagent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/reagent/model"
)

func TestReAgent_RunSingle(t *testing.T) {
	m := model.NewMockModel("Thought: simple\nAnswer: done")
	app := New(m)

	got := app.RunSingle(context.Background(), "do something")
	assert.Equal(t, "done", got)

	// The single agent carries the full tool set in its instructions.
	system := m.Calls()[0].Messages[0].Content
	for _, name := range []string{"calculate", "read_file", "write_file", "run_python_code", "web_search"} {
		assert.Contains(t, system, name)
	}
}

func TestReAgent_RunMulti(t *testing.T) {
	m := model.NewMockModel(
		`{"subtasks": [{"id": 1, "agent": "general", "task": "answer"}]}`,
		"Answer: multi done",
	)
	app := New(m, func(o *Options) { o.Review = false })

	got := app.RunMulti(context.Background(), "do something")
	assert.Equal(t, "multi done", got)
}

func TestReAgent_SaveMultiTrace(t *testing.T) {
	m := model.NewMockModel(
		`{"subtasks": [{"id": 1, "agent": "general", "task": "answer"}]}`,
		"Answer: ok",
	)
	dir := t.TempDir()
	app := New(m, func(o *Options) {
		o.Review = false
		o.TraceDir = dir
	})

	app.RunMulti(context.Background(), "task")
	path, err := app.SaveMultiTrace()
	assert.NoError(t, err)
	assert.FileExists(t, path)
}
