package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pulsefit/platform/internal/core/domain/workout"
)

// Workout handlers
func (s *Server) createWorkout(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	var req workout.CreateWorkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	w, err := s.workoutSvc.CreateWorkout(c.Request().Context(), userID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create workout")
	}

	return c.JSON(http.StatusCreated, w)
}

func (s *Server) getWorkout(c echo.Context) error {
	userID, id, err := workoutParams(c)
	if err != nil {
		return err
	}

	w, err := s.workoutSvc.GetWorkout(c.Request().Context(), userID, id)
	if err != nil {
		return workoutError(err)
	}

	return c.JSON(http.StatusOK, w)
}

func (s *Server) updateWorkout(c echo.Context) error {
	userID, id, err := workoutParams(c)
	if err != nil {
		return err
	}

	var req workout.UpdateWorkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	w, err := s.workoutSvc.UpdateWorkout(c.Request().Context(), userID, id, &req)
	if err != nil {
		return workoutError(err)
	}

	return c.JSON(http.StatusOK, w)
}

func (s *Server) deleteWorkout(c echo.Context) error {
	userID, id, err := workoutParams(c)
	if err != nil {
		return err
	}

	if err := s.workoutSvc.DeleteWorkout(c.Request().Context(), userID, id); err != nil {
		return workoutError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listWorkouts(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	limit := 20
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	workouts, count, err := s.workoutSvc.ListWorkouts(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list workouts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"workouts": workouts,
		"count":    count,
	})
}

func workoutParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid workout ID")
	}
	return userID, id, nil
}

func workoutError(err error) error {
	if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "does not belong") {
		return echo.NewHTTPError(http.StatusNotFound, "workout not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to process workout request")
}
