// Package llm provides interfaces and implementations for LLM completion clients
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Reply is a single completion fragment returned by a provider. Most providers
// return exactly one fragment per request, but the contract allows several
// (one per choice). Meta carries provider annotations such as the finish
// reason; it is never required for extraction.
type Reply struct {
	Text string
	Meta map[string]any
}

// Request describes one completion call. System is optional role framing;
// when empty the provider sends a single user message.
type Request struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float32
}

// Client defines the interface for interacting with large language models
type Client interface {
	// Generate sends a request to the LLM and returns the raw reply fragments.
	// Transport, auth and provider-side failures are reported as
	// *UnavailableError. Generate never retries.
	Generate(ctx context.Context, req Request) ([]Reply, error)
}

// UnavailableError indicates the provider could not produce a reply: network
// failure, auth rejection, provider error response or a malformed envelope.
// Callers surface it unchanged; there is no retry policy.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: generation unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
