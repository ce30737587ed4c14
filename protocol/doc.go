// Package protocol implements the text grammar that turns free-form model
// output into structured control signals: the ReAct markers (Thought / Act /
// Answer / Observe), balanced-JSON payload extraction, reasoning-preamble
// stripping and reviewer verdict parsing.
//
// Every function in this package is pure and must tolerate output that
// violates the expected grammar: a malformed payload yields "not found",
// never an error. The scanner tracks explicit states (inside-string,
// escaped, nesting depth) so delimiters inside quoted values and escaped
// quotes are handled deterministically.
package protocol
