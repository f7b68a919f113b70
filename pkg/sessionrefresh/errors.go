package sessionrefresh

import "errors"

var (
	// ErrMissingBaseURL is returned when a client is built without a provider URL.
	ErrMissingBaseURL = errors.New("sessionrefresh.missing_base_url")
	// ErrProviderUnreachable wraps transport-level failures talking to the provider.
	ErrProviderUnreachable = errors.New("sessionrefresh.provider_unreachable")
	// ErrUnexpectedStatus is returned for provider responses outside the contract.
	ErrUnexpectedStatus = errors.New("sessionrefresh.unexpected_status")
	// ErrInvalidResponse is returned when the provider body cannot be decoded.
	ErrInvalidResponse = errors.New("sessionrefresh.invalid_response")
)
