package protocol

import "strings"

// Verdict is the reviewer's structured judgment over a subtask result.
type Verdict int

const (
	// VerdictPass accepts the result as-is.
	VerdictPass Verdict = iota
	// VerdictFeedback rejects the result with corrective feedback.
	VerdictFeedback
)

// String returns the marker-facing name of the verdict.
func (v Verdict) String() string {
	if v == VerdictFeedback {
		return "FEEDBACK"
	}
	return "PASS"
}

// Verdict markers the reviewer persona is instructed to emit.
const (
	VerdictPassMarker     = "VERDICT: PASS"
	VerdictFeedbackMarker = "VERDICT: FEEDBACK"
)

// DefaultFeedback substitutes for a FEEDBACK verdict that carries no
// detail, so the corrective prompt is never empty.
const DefaultFeedback = "The reviewer flagged issues but gave no details. " +
	"Re-check the result against the original task and improve it."

// ParseVerdict searches reviewer output case-insensitively for a verdict
// marker. PASS wins whenever both markers appear in one malformed response,
// a conservative tie-break that avoids blocking on ambiguous text. A
// FEEDBACK marker captures everything after it as feedback, substituting
// DefaultFeedback when that section is empty. No marker at all defaults to
// PASS: an unparsable reviewer must never stall the pipeline.
func ParseVerdict(text string) (Verdict, string) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, strings.ToLower(VerdictPassMarker)) {
		return VerdictPass, ""
	}

	if idx := strings.Index(lower, strings.ToLower(VerdictFeedbackMarker)); idx >= 0 {
		feedback := strings.TrimSpace(text[idx+len(VerdictFeedbackMarker):])
		if feedback == "" {
			feedback = DefaultFeedback
		}
		return VerdictFeedback, feedback
	}

	return VerdictPass, ""
}
