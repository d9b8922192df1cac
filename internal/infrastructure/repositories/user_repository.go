package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/domain/user"
	"github.com/pulsefit/platform/internal/core/ports"
	"github.com/pulsefit/platform/internal/infrastructure/db"
)

// UserRepository exposes the narrow account-store surface the verification
// flows need. Account creation and profile editing live elsewhere.
type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(database *db.Database, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: database, logger: logger}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	query := `
		SELECT id, email, password_hash, role, is_verified, age, height_cm, weight_kg, goal,
			   last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: user not found by email")
			}
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get user by email")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, email string) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE email = $1`

	result, err := r.db.DB.ExecContext(ctx, query, email, time.Now())
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to mark user verified")
		}
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user with email %s not found", email)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"email": email}).Info("db: user marked verified")
	}

	return nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE email = $1`

	result, err := r.db.DB.ExecContext(ctx, query, email, passwordHash, time.Now())
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to update password hash")
		}
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user with email %s not found", email)
	}

	return nil
}
