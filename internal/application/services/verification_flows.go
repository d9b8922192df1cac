package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsefit/platform/internal/core/domain/verification"
)

// RequestEmailVerification issues a new email-verification code and mails it.
// It serves both the initial request after signup and explicit resends; each
// call supersedes whatever code was outstanding.
func (s *VerificationService) RequestEmailVerification(ctx context.Context, email string) error {
	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if usr.IsVerified {
		return verification.ErrAlreadyVerified
	}

	code, err := s.issue(ctx, email, verification.PurposeEmailVerification)
	if err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(ctx, email, code.Code); err != nil {
		s.rollback(ctx, code)
		return verification.ErrDeliveryFailed
	}

	return nil
}

// ConfirmEmail validates the submitted code, consumes it, then flags the
// account verified. An already-verified account short-circuits to success
// without touching the code store. The code is consumed before the account is
// mutated: a consumed-but-unverified account can safely retry with a fresh
// code, whereas the reverse order could verify without spending the code.
func (s *VerificationService) ConfirmEmail(ctx context.Context, email, code string) error {
	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if usr.IsVerified {
		return nil
	}

	rec, err := s.validate(ctx, email, code, verification.PurposeEmailVerification)
	if err != nil {
		return err
	}

	if err := s.consume(ctx, rec); err != nil {
		return err
	}

	if err := s.users.SetVerified(ctx, email); err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": email}).Info("email address verified")
	}

	return nil
}

// RequestPasswordReset issues a reset code for the account, if one exists.
// For an unknown email it returns success without issuing anything, so the
// endpoint cannot be used to enumerate accounts.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email}).Debug("password reset requested for unknown account")
		}
		return nil
	}

	code, err := s.issue(ctx, email, verification.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.email.SendPasswordResetCode(ctx, email, code.Code); err != nil {
		s.rollback(ctx, code)
		return verification.ErrDeliveryFailed
	}

	return nil
}

// ResetPassword applies a new password after validating the reset code. The
// password policy is checked before the code store is touched, so a rejected
// password never burns an attempt. The code is consumed before the hash is
// replaced, for the same ordering rationale as ConfirmEmail.
func (s *VerificationService) ResetPassword(ctx context.Context, req *verification.ResetPasswordRequest) error {
	if len(req.NewPassword) < verification.MinPasswordLength {
		return verification.ErrPasswordPolicy
	}
	if req.NewPassword != req.ConfirmPassword {
		return verification.ErrPasswordMismatch
	}

	rec, err := s.validate(ctx, req.Email, req.Code, verification.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.consume(ctx, rec); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.SetPasswordHash(ctx, req.Email, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": req.Email}).Info("password reset completed")
	}

	return nil
}
