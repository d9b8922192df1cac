package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/domain/workout"
	"github.com/pulsefit/platform/internal/core/ports"
	"github.com/pulsefit/platform/internal/infrastructure/db"
)

type WorkoutRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

var _ ports.WorkoutRepository = (*WorkoutRepository)(nil)

func NewWorkoutRepository(database *db.Database, logger *logrus.Logger) *WorkoutRepository {
	return &WorkoutRepository{db: database, logger: logger}
}

func (r *WorkoutRepository) Create(ctx context.Context, w *workout.Workout) error {
	query := `
		INSERT INTO workouts (id, user_id, name, description, duration_min, calories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		w.ID, w.UserID, w.Name, w.Description, w.DurationMin, w.Calories, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"workout_id": w.ID, "user_id": w.UserID}).WithError(err).Error("db: failed to create workout")
		}
		return fmt.Errorf("failed to create workout: %w", err)
	}

	return nil
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*workout.Workout, error) {
	var w workout.Workout
	query := `
		SELECT id, user_id, name, description, duration_min, calories, created_at, updated_at
		FROM workouts
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &w, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workout with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"workout_id": id}).WithError(err).Error("db: failed to get workout")
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}

	return &w, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, w *workout.Workout) error {
	query := `
		UPDATE workouts
		SET name = $2, description = $3, duration_min = $4, calories = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		w.ID, w.Name, w.Description, w.DurationMin, w.Calories, w.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"workout_id": w.ID}).WithError(err).Error("db: failed to update workout")
		}
		return fmt.Errorf("failed to update workout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workout with ID %s not found", w.ID)
	}

	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workouts WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"workout_id": id}).WithError(err).Error("db: failed to delete workout")
		}
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workout with ID %s not found", id)
	}

	return nil
}

func (r *WorkoutRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, error) {
	var workouts []*workout.Workout
	query := `
		SELECT id, user_id, name, description, duration_min, calories, created_at, updated_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.DB.SelectContext(ctx, &workouts, query, userID, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list workouts")
		}
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	return workouts, nil
}

func (r *WorkoutRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM workouts WHERE user_id = $1`

	err := r.db.DB.GetContext(ctx, &count, query, userID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to count workouts")
		}
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}

	return count, nil
}
