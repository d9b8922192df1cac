package workout

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a training session logged by a user.
type Workout struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	DurationMin *int      `json:"duration_min,omitempty" db:"duration_min"`
	Calories    *int      `json:"calories,omitempty" db:"calories"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateWorkoutRequest is the payload to log a new workout.
type CreateWorkoutRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	Calories    *int    `json:"calories,omitempty"`
}

// UpdateWorkoutRequest carries partial updates to a workout.
type UpdateWorkoutRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	Calories    *int    `json:"calories,omitempty"`
}
