package protocol

import (
	"encoding/json"
	"strings"
)

// Markers understood by the scanner. They are part of the wire grammar the
// agent instructs the model to follow and must match it byte for byte.
const (
	// ThoughtMarker opens the reasoning narration of a ReAct step.
	ThoughtMarker = "Thought:"
	// ActMarker opens a tool invocation step.
	ActMarker = "Act:"
	// AnswerMarker opens the final answer section.
	AnswerMarker = "Answer:"
	// ObserveMarker tags tool results fed back into the conversation.
	ObserveMarker = "Observe:"
	// ToolCallTag precedes the JSON payload of a tool call.
	ToolCallTag = "[TOOL_CALL]"
)

// Delimiters of the reasoning preamble some models emit before the protocol
// content (e.g. DeepSeek-R1).
const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

// ToolCall is a structured tool invocation decoded from model text.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// ExtractFirstJSONObject scans text left to right and returns the first
// complete top-level JSON object, ignoring braces that occur inside quoted
// strings and honoring backslash escapes. Anything before or after the
// object is discarded; a second object later in the text is never
// considered, which guards against a model emitting an unrequested extra
// action in the same response.
func ExtractFirstJSONObject(text string) (string, bool) {
	var (
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			// Quotes outside any object are prose, not JSON strings.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// ParseToolCall locates the tool call tag and decodes the JSON payload that
// follows it. A missing tag, unbalanced payload, invalid JSON or absent
// "name" field all yield "no call" rather than an error; the agent loop
// treats that as the model not acting this round.
func ParseToolCall(text string) (*ToolCall, bool) {
	idx := strings.Index(text, ToolCallTag)
	if idx < 0 {
		return nil, false
	}

	raw, ok := ExtractFirstJSONObject(text[idx+len(ToolCallTag):])
	if !ok {
		return nil, false
	}

	var payload struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	if payload.Name == "" {
		return nil, false
	}
	if payload.Arguments == nil {
		payload.Arguments = map[string]any{}
	}

	return &ToolCall{Name: payload.Name, Arguments: payload.Arguments}, true
}

// ParseThought returns the content between the Thought marker and the next
// recognized marker on a following line (Act or Answer), or the end of the
// text. Absence of the marker is not an error; some valid responses skip
// the narration entirely.
func ParseThought(text string) (string, bool) {
	idx := strings.Index(text, ThoughtMarker)
	if idx < 0 {
		return "", false
	}

	rest := text[idx+len(ThoughtMarker):]
	end := len(rest)
	for _, marker := range []string{"\n" + ActMarker, "\n" + AnswerMarker} {
		if i := strings.Index(rest, marker); i >= 0 && i < end {
			end = i
		}
	}

	return strings.TrimSpace(rest[:end]), true
}

// ParseAnswer returns everything after the Answer marker, trimmed. The
// answer may span multiple lines.
func ParseAnswer(text string) (string, bool) {
	idx := strings.Index(text, AnswerMarker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+len(AnswerMarker):]), true
}

// StripReasoning removes one leading <think>...</think> block and returns
// its content alongside the remaining text. The preamble is kept for
// logging only and never drives control decisions. An unterminated block
// leaves the text untouched.
func StripReasoning(text string) (preamble, remainder string) {
	open := strings.Index(text, reasoningOpen)
	if open < 0 {
		return "", text
	}
	rel := strings.Index(text[open:], reasoningClose)
	if rel < 0 {
		return "", text
	}

	preamble = strings.TrimSpace(text[open+len(reasoningOpen) : open+rel])
	remainder = strings.TrimSpace(text[:open] + text[open+rel+len(reasoningClose):])
	return preamble, remainder
}

// CleanFinalAnswer applies defensive cleanup before text is returned to a
// human. If an Answer section exists only that section survives, discarding
// any hallucinated extra reasoning cycles before it. Failing that, a bare
// Thought section is returned with its label stripped. Otherwise the
// trimmed text passes through unchanged.
func CleanFinalAnswer(text string) string {
	if answer, ok := ParseAnswer(text); ok {
		return answer
	}
	if thought, ok := ParseThought(text); ok && thought != "" {
		return thought
	}
	return strings.TrimSpace(text)
}
