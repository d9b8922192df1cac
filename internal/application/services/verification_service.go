package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/domain/verification"
	"github.com/pulsefit/platform/internal/core/ports"
)

// VerificationService owns the one-time code lifecycle: issuance (with
// invalidation of prior codes), validation and single-shot consumption, for
// both the email-verification and password-reset purposes. The flows built on
// top of this core live in verification_flows.go.
type VerificationService struct {
	codes  ports.VerificationCodeRepository
	users  ports.UserRepository
	email  ports.EmailService
	logger *logrus.Logger
}

func NewVerificationService(codes ports.VerificationCodeRepository, users ports.UserRepository, email ports.EmailService, logger *logrus.Logger) ports.VerificationService {
	return &VerificationService{
		codes:  codes,
		users:  users,
		email:  email,
		logger: logger,
	}
}

// generateCode produces a zero-padded numeric code, uniformly distributed
// over [000000, 999999].
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < verification.CodeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", verification.CodeLength, n), nil
}

// issue creates a fresh code record for (email, purpose). Any outstanding
// code for the pair is invalidated in the same storage transaction, so at
// most one unused code per pair exists afterwards. Delivery is the caller's
// job.
func (s *VerificationService) issue(ctx context.Context, email string, purpose verification.Purpose) (*verification.Code, error) {
	codeStr, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	code := &verification.Code{
		ID:        uuid.New(),
		Email:     email,
		Code:      codeStr,
		Purpose:   purpose,
		Used:      false,
		CreatedAt: now,
		ExpiresAt: now.Add(verification.CodeTTL),
	}

	if err := s.codes.Replace(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"email":      email,
			"purpose":    purpose,
			"expires_at": code.ExpiresAt,
		}).Info("verification code issued")
	}

	return code, nil
}

// validate returns the single live record matching the submitted triple.
// Every failure mode collapses into verification.ErrCodeInvalid so the caller
// cannot tell a wrong code from an expired or consumed one; the distinction
// is only logged.
func (s *VerificationService) validate(ctx context.Context, email, code string, purpose verification.Purpose) (*verification.Code, error) {
	rec, err := s.codes.FindValid(ctx, email, code, purpose, time.Now())
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"email":   email,
				"purpose": purpose,
			}).WithError(err).Debug("verification code validation failed")
		}
		return nil, verification.ErrCodeInvalid
	}
	return rec, nil
}

// consume retires a validated record. The store only flips records that are
// still unused; losing that race surfaces as the same opaque failure as an
// invalid code.
func (s *VerificationService) consume(ctx context.Context, code *verification.Code) error {
	if err := s.codes.MarkUsed(ctx, code.ID); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"code_id": code.ID,
				"email":   code.Email,
				"purpose": code.Purpose,
			}).WithError(err).Warn("failed to consume verification code")
		}
		return err
	}
	code.Used = true
	return nil
}

// rollback invalidates a just-issued code whose delivery failed, so an email
// the user never received cannot linger as a live credential.
func (s *VerificationService) rollback(ctx context.Context, code *verification.Code) {
	if err := s.codes.MarkUsed(ctx, code.ID); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"code_id": code.ID,
				"email":   code.Email,
			}).WithError(err).Warn("failed to roll back undelivered verification code")
		}
	}
}
