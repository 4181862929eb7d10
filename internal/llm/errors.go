// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package llm

import "fmt"

// TransportError reports that the remote call could not complete (network,
// auth, rate limit, cancelled context).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports a reply that was empty or could not be parsed into
// the requested structured shape.
type ValidationError struct {
	// Reason is a short description of what was wrong.
	Reason string

	// Content is the raw reply, kept for diagnostics.
	Content string

	// Err is the underlying decode or validation error, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: invalid structured reply: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("llm: invalid structured reply: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }
