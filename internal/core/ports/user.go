package ports

import (
	"context"

	"github.com/pulsefit/platform/internal/core/domain/user"
)

// UserRepository is the narrow slice of the account store the verification
// flows depend on.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// SetVerified flags the account as email-verified. Verification is a
	// one-way transition; there is no path back.
	SetVerified(ctx context.Context, email string) error

	// SetPasswordHash replaces the account's password hash.
	SetPasswordHash(ctx context.Context, email, passwordHash string) error
}
