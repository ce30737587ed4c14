package model

import "context"

type scriptStep struct {
	text string
	err  error
}

// MockModel is a lightweight scripted Model for tests and examples. Each
// Complete call consumes the next queued step in order; an exhausted script
// echoes the last user message. All received requests are recorded so tests
// can assert on call counts and prompt contents.
type MockModel struct {
	info   Info
	script []scriptStep
	calls  []Request
}

// NewMockModel constructs a MockModel preloaded with the given responses.
func NewMockModel(responses ...string) *MockModel {
	m := &MockModel{info: Info{Name: "mock", Provider: "mock"}}
	m.Enqueue(responses...)
	return m
}

// Enqueue appends scripted responses in the order they will be returned.
func (m *MockModel) Enqueue(responses ...string) {
	for _, r := range responses {
		m.script = append(m.script, scriptStep{text: r})
	}
}

// EnqueueError appends a scripted transport failure.
func (m *MockModel) EnqueueError(err error) {
	m.script = append(m.script, scriptStep{err: err})
}

// Calls returns every request received so far.
func (m *MockModel) Calls() []Request { return m.calls }

// CallCount returns the number of Complete invocations.
func (m *MockModel) CallCount() int { return len(m.calls) }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.calls = append(m.calls, req)

	if len(m.script) > 0 {
		step := m.script[0]
		m.script = m.script[1:]
		if step.err != nil {
			return "", step.err
		}
		return step.text, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser {
			lastUser = msg.Content
		}
	}
	return "Mock response to: " + lastUser, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
