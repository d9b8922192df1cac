package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulsefit/platform/internal/core/domain/verification"
)

// VerificationCodeRepository is the persistent store of verification code
// records. The service layer's correctness depends on its exact query
// semantics, so they are spelled out here.
type VerificationCodeRepository interface {
	// Insert appends a new record without touching any other record.
	Insert(ctx context.Context, code *verification.Code) error

	// InvalidateOutstanding marks every unused record for (email, purpose)
	// as used, regardless of expiry. Calling it when nothing matches is a
	// no-op, not an error.
	InvalidateOutstanding(ctx context.Context, email string, purpose verification.Purpose) error

	// Replace performs InvalidateOutstanding followed by Insert as one
	// atomic unit, so two concurrent issuances cannot leave two unused
	// codes for the same (email, purpose) pair.
	Replace(ctx context.Context, code *verification.Code) error

	// FindValid returns the single record matching email, code and purpose
	// with used=false and expires_at strictly after now, preferring the most
	// recently created. Returns verification.ErrCodeInvalid when nothing
	// matches.
	FindValid(ctx context.Context, email, code string, purpose verification.Purpose, now time.Time) (*verification.Code, error)

	// MarkUsed flips used to true for the record, conditional on it still
	// being unused. A record that was consumed or superseded in the
	// meantime yields verification.ErrCodeInvalid.
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// VerificationService orchestrates issuance, validation and consumption of
// codes for both purposes.
type VerificationService interface {
	// RequestEmailVerification issues a fresh email-verification code and
	// mails it. Serves both the initial request and resends.
	RequestEmailVerification(ctx context.Context, email string) error

	// ConfirmEmail validates and consumes a code, then marks the account
	// verified. Already-verified accounts succeed without touching codes.
	ConfirmEmail(ctx context.Context, email, code string) error

	// RequestPasswordReset issues a reset code for an existing account.
	// For an unknown email it reports success without issuing anything.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword checks the password policy, then validates and consumes
	// the code and replaces the account's password hash.
	ResetPassword(ctx context.Context, req *verification.ResetPasswordRequest) error
}
