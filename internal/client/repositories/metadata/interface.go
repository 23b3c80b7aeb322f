// Package metadata is the generic key/value store of the local SQLite
// database, shared by every client flow that needs to persist a small value.
// The sealed session token and the last user name live here.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyAccessToken  = "access_token"
	KeyLastUsername = "last_username"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
