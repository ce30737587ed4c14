// Package orchestrator owns a full task run: it asks the model for a plan,
// delegates each subtask to a freshly constructed role-scoped agent,
// optionally routes each result through a bounded review loop, and merges
// everything into one answer.
//
// The pipeline is built to always terminate with some answer. Plan parse
// failures substitute a single general-purpose fallback subtask, a failing
// merge call degrades to concatenation, and unparsable reviewer verdicts
// fail open to PASS. Only a transport failure during planning aborts a run,
// and even that leaves a trace record behind.
package orchestrator
