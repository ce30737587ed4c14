// Package model defines the boundary to the text-completion provider.
//
// The contract is deliberately narrow: an ordered list of role-tagged
// messages plus a sampling temperature goes in, response text comes out.
// Transport failures (unreachable endpoint, timeout) surface as ordinary Go
// errors from Complete; callers that need to fold a failure back into
// conversation text use Tagged, which produces the recognizable "[ERROR]"
// convention shared across the pipeline. Providers own their own timeout
// and bounded retry policy and must never panic past this interface.
package model
