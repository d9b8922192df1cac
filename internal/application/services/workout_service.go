package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulsefit/platform/internal/core/domain/workout"
	"github.com/pulsefit/platform/internal/core/ports"
)

type WorkoutService struct {
	repo   ports.WorkoutRepository
	logger *logrus.Logger
}

func NewWorkoutService(repo ports.WorkoutRepository, logger *logrus.Logger) ports.WorkoutService {
	return &WorkoutService{repo: repo, logger: logger}
}

func (s *WorkoutService) CreateWorkout(ctx context.Context, userID uuid.UUID, req *workout.CreateWorkoutRequest) (*workout.Workout, error) {
	w := &workout.Workout{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Calories:    req.Calories,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return w, nil
}

func (s *WorkoutService) GetWorkout(ctx context.Context, userID, id uuid.UUID) (*workout.Workout, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("workout %s does not belong to user %s", id, userID)
	}
	return w, nil
}

func (s *WorkoutService) UpdateWorkout(ctx context.Context, userID, id uuid.UUID, req *workout.UpdateWorkoutRequest) (*workout.Workout, error) {
	w, err := s.GetWorkout(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Description != nil {
		w.Description = req.Description
	}
	if req.DurationMin != nil {
		w.DurationMin = req.DurationMin
	}
	if req.Calories != nil {
		w.Calories = req.Calories
	}
	w.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	return w, nil
}

func (s *WorkoutService) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetWorkout(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workout_id": id, "user_id": userID}).Info("workout deleted")
	}

	return nil
}

func (s *WorkoutService) ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, int, error) {
	workouts, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return workouts, count, nil
}
