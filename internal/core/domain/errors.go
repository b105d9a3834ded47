package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicatePlatform indicates two platform records share an id.
	ErrDuplicatePlatform = errors.New("duplicate platform id")

	// ErrLLMUnavailable indicates no hosted model is configured.
	// The chat falls back to the deterministic composer.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrProviderFailed indicates a hosted model call did not produce a reply.
	ErrProviderFailed = errors.New("provider call failed")

	// ErrAnalyticsUnavailable indicates the analytics backend cannot be reached.
	ErrAnalyticsUnavailable = errors.New("analytics backend unavailable")

	// ErrRateLimited indicates the caller exceeded the request rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrRecorderClosed indicates the analytics recorder no longer accepts events.
	ErrRecorderClosed = errors.New("analytics recorder closed")
)

// ProviderErrorKind classifies hosted model failures.
type ProviderErrorKind string

// Provider failure kinds.
const (
	ProviderErrorNetwork   ProviderErrorKind = "network"
	ProviderErrorAuth      ProviderErrorKind = "auth"
	ProviderErrorQuota     ProviderErrorKind = "quota"
	ProviderErrorTimeout   ProviderErrorKind = "timeout"
	ProviderErrorMalformed ProviderErrorKind = "malformed"
	ProviderErrorUpstream  ProviderErrorKind = "upstream"
)

// ProviderError is returned by LLM adapters when a call fails.
// errors.Is(err, ErrProviderFailed) holds for every ProviderError.
type ProviderError struct {
	Provider AIProvider
	Kind     ProviderErrorKind
	Err      error
}

// NewProviderError builds a ProviderError.
func NewProviderError(provider AIProvider, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ProviderError) Unwrap() []error {
	return []error{ErrProviderFailed, e.Err}
}

// ProviderErrorKindOf extracts the failure kind from err.
// Errors that are not ProviderErrors report ProviderErrorUpstream,
// except context deadline errors which report ProviderErrorTimeout.
func ProviderErrorKindOf(err error) ProviderErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ProviderErrorTimeout
	}
	return ProviderErrorUpstream
}

// ClassifyHTTPStatus maps a non-200 provider status code to a failure kind.
func ClassifyHTTPStatus(status int) ProviderErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ProviderErrorAuth
	case status == http.StatusTooManyRequests, status == http.StatusPaymentRequired:
		return ProviderErrorQuota
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ProviderErrorTimeout
	default:
		return ProviderErrorUpstream
	}
}

// ClassifyTransportError maps an http.Client error to a failure kind.
func ClassifyTransportError(err error) ProviderErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ProviderErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProviderErrorTimeout
	}
	return ProviderErrorNetwork
}
