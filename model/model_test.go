package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagged(t *testing.T) {
	text := Tagged(errors.New("connection refused"))
	assert.Equal(t, "[ERROR] connection refused", text)
	assert.True(t, IsTagged(text))
	assert.True(t, IsTagged("  [ERROR] timed out"))
	assert.False(t, IsTagged("all good"))
}

func TestMockModel_Script(t *testing.T) {
	m := NewMockModel("first", "second")
	m.EnqueueError(errors.New("boom"))

	got, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = m.Complete(context.Background(), Request{})
	require.Error(t, err)

	// Exhausted script echoes the last user message.
	got, err = m.Complete(context.Background(), Request{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hello"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", got)

	assert.Equal(t, 4, m.CallCount())
}
