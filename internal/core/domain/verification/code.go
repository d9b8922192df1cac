package verification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// CodeLength is the number of digits in a verification code.
	CodeLength = 6
	// CodeTTL is the validity window of a code. Email templates state this
	// value, so changing it requires updating them too.
	CodeTTL = 15 * time.Minute
)

// Purpose scopes a code to the sensitive transition it authorizes. A code
// issued for one purpose never validates for the other.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

func (p Purpose) String() string {
	return string(p)
}

func (p Purpose) IsValid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset:
		return true
	default:
		return false
	}
}

// Code is a single-use, time-boxed verification code record. Used transitions
// to true exactly once: either on consumption or when a newer code for the
// same (email, purpose) pair supersedes it.
type Code struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"-" db:"code"`
	Purpose   Purpose   `json:"purpose" db:"purpose"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// IsExpired reports whether the code is expired at the given instant.
// Expiry is strict: a code submitted exactly at ExpiresAt is expired.
func (c *Code) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IsValid reports whether the code is still usable at the given instant.
func (c *Code) IsValid(now time.Time) bool {
	return !c.Used && !c.IsExpired(now)
}

var (
	// ErrCodeInvalid covers every validation failure: unknown code, wrong
	// purpose, expired, or already used. Callers surface it as a single
	// opaque message so submitters cannot probe code state.
	ErrCodeInvalid = errors.New("invalid or expired verification code")

	// ErrAlreadyVerified signals that the account no longer needs a
	// verification code.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrDeliveryFailed signals the code email could not be sent. The issued
	// record is rolled back, so the user should request a new code rather
	// than wait for one that never arrives.
	ErrDeliveryFailed = errors.New("failed to deliver verification code email")

	// ErrPasswordPolicy is returned before any code is checked when the new
	// password is shorter than the minimum.
	ErrPasswordPolicy = errors.New("password must be at least 8 characters")

	// ErrPasswordMismatch is returned before any code is checked when the
	// confirmation does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// MinPasswordLength is the reset flow's password policy.
const MinPasswordLength = 8

// RequestCodeRequest asks for a fresh code for an email address.
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmEmailRequest submits a code to verify an email address.
type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// ResetPasswordRequest submits a reset code together with the new password.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,len=6"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
