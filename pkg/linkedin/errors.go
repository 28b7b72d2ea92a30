package linkedin

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScopes is returned when an authorization URL is requested
	// without any OAuth scope.
	ErrNoScopes = errors.New("linkedin: at least one scope is required")

	// ErrEmptyCode is returned when the authorization code parameter is empty.
	ErrEmptyCode = errors.New("linkedin: code parameter cannot be empty")

	// ErrEmptyAccessToken is returned when an authenticated call is attempted
	// without an access token.
	ErrEmptyAccessToken = errors.New("linkedin: access token cannot be empty")

	// ErrNoAccessToken is returned when the token endpoint replies without
	// an access_token field.
	ErrNoAccessToken = errors.New("linkedin: response missing access_token")
)

// ConfigError reports a missing required client configuration field.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("linkedin: missing required %q during initialization", e.Field)
}

// APIError reports a non-2xx, non-404 response from the LinkedIn API, a
// network-level failure, or a malformed response body.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("linkedin: %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("linkedin: %s: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
