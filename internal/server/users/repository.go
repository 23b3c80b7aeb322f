package users

import (
	"context"
)

// Repository looks up reviewer credentials.
type Repository interface {
	PasswordHash(ctx context.Context, username string) (string, error)
}
