package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenNotFound = errors.New("token not found")
	ErrUserNotFound  = errors.New("user not found")

	// ErrStateMismatch is returned when the callback state does not match
	// the value set before redirecting to the consent screen.
	ErrStateMismatch = errors.New("state verification failed")
)

// ProvisioningError reports a failure in the identity store while
// upserting the user, persisting the provider token, or minting the
// session credential.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning: %s: %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
