package database

import (
	"context"

	"github.com/y0ug/linkedauth/pkg/auth"
)

// Database defines the methods required for identity and provider-token
// storage. It extends the auth store contract with lifecycle management.
type Database interface {
	auth.Database

	// Initialize sets up the necessary buckets or structures.
	Initialize(ctx context.Context) error

	Close(ctx context.Context) error
}
