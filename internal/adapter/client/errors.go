package client

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the classification pipeline
var (
	// ErrMissingAPIKey is returned when no provider credential is configured
	ErrMissingAPIKey = errors.New("classification provider API key not configured")

	// ErrEmptyModelOutput is returned when the provider reply contains no text
	ErrEmptyModelOutput = errors.New("classification provider returned no text")
)

// FetchError describes a failure to retrieve the image bytes. It is a
// caller-side fault: the image reference was unreachable, empty or too large.
type FetchError struct {
	StatusCode int
	Size       int64
	Reason     string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("image fetch failed: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("image fetch failed: %s", e.Reason)
}

// Model error reasons, classified from the provider's HTTP status
const (
	ModelErrorBadRequest   = "bad request"
	ModelErrorUnauthorized = "unauthorized"
	ModelErrorRateLimited  = "rate limited"
	ModelErrorUpstream     = "upstream error"
)

// ModelError describes a non-2xx reply from the classification provider
type ModelError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("classification provider error: %s (status %d)", e.Reason, e.StatusCode)
}

// IsRateLimited reports whether the provider rejected the call for rate limiting
func (e *ModelError) IsRateLimited() bool {
	return e.Reason == ModelErrorRateLimited
}
