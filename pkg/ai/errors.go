package ai

import "errors"

var (
	// ErrInvalidResponse indicates the provider answered with content that does
	// not match the band evaluation schema.
	ErrInvalidResponse = errors.New("invalid evaluation response")
	// ErrProviderUnavailable indicates the provider could not be reached or
	// rejected the request.
	ErrProviderUnavailable = errors.New("evaluation provider unavailable")
)
