package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/domain/verification"
	"github.com/pulsefit/platform/internal/core/ports"
	"github.com/pulsefit/platform/internal/infrastructure/db"
)

// VerificationCodeRepository persists verification codes in Postgres. Records
// are never deleted here; retired codes stay behind with used=true and
// cleanup is left to operational tooling.
type VerificationCodeRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

var _ ports.VerificationCodeRepository = (*VerificationCodeRepository)(nil)

func NewVerificationCodeRepository(database *db.Database, logger *logrus.Logger) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: database, logger: logger}
}

func (r *VerificationCodeRepository) Insert(ctx context.Context, c *verification.Code) error {
	query := `
		INSERT INTO verification_codes (id, email, code, purpose, used, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		c.ID, c.Email, c.Code, c.Purpose, c.Used, c.CreatedAt, c.ExpiresAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": c.Email, "purpose": c.Purpose}).WithError(err).Error("db: failed to insert verification code")
		}
		return fmt.Errorf("failed to insert verification code: %w", err)
	}

	return nil
}

// InvalidateOutstanding retires every unused code for (email, purpose),
// expired or not. Matching nothing is a no-op.
func (r *VerificationCodeRepository) InvalidateOutstanding(ctx context.Context, email string, purpose verification.Purpose) error {
	query := `
		UPDATE verification_codes
		SET used = TRUE
		WHERE email = $1 AND purpose = $2 AND used = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query, email, purpose)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email, "purpose": purpose}).WithError(err).Error("db: failed to invalidate outstanding codes")
		}
		return fmt.Errorf("failed to invalidate outstanding codes: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows > 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"email": email, "purpose": purpose, "rows": rows}).Debug("db: superseded outstanding verification codes")
	}

	return nil
}

// Replace invalidates outstanding codes for the pair and inserts the new
// record in one transaction. Two racing issuances serialize on the row
// updates, so the pair can never end up with two unused codes.
func (r *VerificationCodeRepository) Replace(ctx context.Context, c *verification.Code) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	invalidate := `
		UPDATE verification_codes
		SET used = TRUE
		WHERE email = $1 AND purpose = $2 AND used = FALSE`
	if _, err := tx.ExecContext(ctx, invalidate, c.Email, c.Purpose); err != nil {
		return fmt.Errorf("failed to invalidate outstanding codes: %w", err)
	}

	insert := `
		INSERT INTO verification_codes (id, email, code, purpose, used, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insert,
		c.ID, c.Email, c.Code, c.Purpose, c.Used, c.CreatedAt, c.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert verification code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": c.Email, "purpose": c.Purpose}).WithError(err).Error("db: failed to commit code replacement")
		}
		return fmt.Errorf("failed to commit code replacement: %w", err)
	}

	return nil
}

// FindValid returns the live record for the submitted triple. The expiry
// check is strict (expires_at > now), so a submission at the exact expiry
// instant fails. Most recent first is a defensive tie-break; the issuance
// invariant should leave at most one match.
func (r *VerificationCodeRepository) FindValid(ctx context.Context, email, code string, purpose verification.Purpose, now time.Time) (*verification.Code, error) {
	var c verification.Code
	query := `
		SELECT id, email, code, purpose, used, created_at, expires_at
		FROM verification_codes
		WHERE email = $1 AND code = $2 AND purpose = $3 AND used = FALSE AND expires_at > $4
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.DB.GetContext(ctx, &c, query, email, code, purpose, now)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email, "purpose": purpose}).Debug("db: no valid verification code found")
			}
			return nil, verification.ErrCodeInvalid
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email, "purpose": purpose}).WithError(err).Error("db: failed to query verification code")
		}
		return nil, fmt.Errorf("failed to query verification code: %w", err)
	}

	return &c, nil
}

// MarkUsed consumes a record. The used=FALSE predicate makes the update
// conditional: of two callers racing to consume the same record, only one
// flips it, and the loser gets verification.ErrCodeInvalid.
func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE verification_codes SET used = TRUE WHERE id = $1 AND used = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"code_id": id}).WithError(err).Error("db: failed to mark verification code used")
		}
		return fmt.Errorf("failed to mark verification code used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"code_id": id}).Debug("db: verification code already used or missing")
		}
		return verification.ErrCodeInvalid
	}

	return nil
}
