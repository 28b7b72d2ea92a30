// auth/database.go
package auth

import (
	"context"
)

// Database defines the interface for the identity/token store operations
// needed by the auth package.
type Database interface {
	// UpsertUser creates or updates the record keyed by user.UID and
	// reports whether a new record was created.
	UpsertUser(ctx context.Context, user UserRecord) (created bool, err error)

	// GetUser retrieves the record for uid, or ErrUserNotFound.
	GetUser(ctx context.Context, uid string) (UserRecord, error)

	// StoreAccessToken persists the provider access token for uid.
	StoreAccessToken(ctx context.Context, uid string, token string) error

	// GetAccessToken retrieves the provider access token for uid, or
	// ErrTokenNotFound.
	GetAccessToken(ctx context.Context, uid string) (string, error)
}
