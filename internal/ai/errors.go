package ai

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential    = errors.New("api key is missing")
	ErrNoProviderConfigured = errors.New("no ai provider configured")
	ErrUnsupportedProvider  = errors.New("unsupported ai provider")
)

// ProviderError describes a failed call to a remote provider.
// StatusCode is zero when no HTTP response was received.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func missingCredential(provider Provider) error {
	return &ProviderError{Provider: provider, Message: ErrMissingCredential.Error(), Err: ErrMissingCredential}
}

func malformedResponse(provider Provider, status int, message string) error {
	return &ProviderError{Provider: provider, StatusCode: status, Message: message}
}
