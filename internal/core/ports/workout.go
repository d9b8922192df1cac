package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsefit/platform/internal/core/domain/workout"
)

// WorkoutRepository defines the interface for workout data operations
type WorkoutRepository interface {
	Create(ctx context.Context, w *workout.Workout) error
	GetByID(ctx context.Context, id uuid.UUID) (*workout.Workout, error)
	Update(ctx context.Context, w *workout.Workout) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// WorkoutService defines the interface for workout business logic
type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID uuid.UUID, req *workout.CreateWorkoutRequest) (*workout.Workout, error)
	GetWorkout(ctx context.Context, userID, id uuid.UUID) (*workout.Workout, error)
	UpdateWorkout(ctx context.Context, userID, id uuid.UUID, req *workout.UpdateWorkoutRequest) (*workout.Workout, error)
	DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error
	ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, int, error)
}
