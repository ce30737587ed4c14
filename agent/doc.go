// Package agent implements the bounded ReAct reasoning loop that drives a
// single conversation with the model boundary.
//
// Each round the loop sends the full history, parses the response through
// the protocol scanner, and either returns a final answer, dispatches one
// tool call and feeds the observation back, or degrades gracefully when the
// model ignored the grammar. The loop always terminates: after the round
// ceiling it forces one last answer-only completion. A run never raises;
// genuine failure comes back as tagged error text plus a trace record.
package agent
