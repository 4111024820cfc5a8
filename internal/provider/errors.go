package provider

import "errors"

// Errors returned by network-backed sources. Adapters wrap them with %w
// so callers can classify failures with errors.Is.
var (
	ErrNetworkFailure     = errors.New("network request failed")
	ErrRateLimited        = errors.New("rate limited by provider API")
	ErrUnexpectedResponse = errors.New("unexpected provider response")
)
