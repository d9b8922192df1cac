package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulsefit/platform/internal/core/domain/verification"
)

// Verification and password reset handlers. Validation failures are reported
// with one opaque message regardless of cause, so responses do not reveal
// whether a code exists, expired or was already spent.

func (s *Server) requestVerificationCode(c echo.Context) error {
	var req verification.RequestCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	err := s.verificationSvc.RequestEmailVerification(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{
			"message": "a verification code has been sent to your email address",
		})
	case errors.Is(err, verification.ErrAlreadyVerified):
		return c.JSON(http.StatusOK, map[string]string{
			"message": "your email is already verified, you can log in",
		})
	case errors.Is(err, verification.ErrDeliveryFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send the verification email, please request a new code")
	case strings.Contains(err.Error(), "not found"):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue verification code")
	}
}

func (s *Server) verifyEmail(c echo.Context) error {
	var req verification.ConfirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and code are required")
	}

	err := s.verificationSvc.ConfirmEmail(c.Request().Context(), req.Email, req.Code)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{
			"message": "your email has been verified, you can now log in",
		})
	case errors.Is(err, verification.ErrCodeInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired verification code, please try again")
	case strings.Contains(err.Error(), "not found"):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to verify email")
	}
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req verification.RequestCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	err := s.verificationSvc.RequestPasswordReset(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		// Same response whether or not the account exists
		return c.JSON(http.StatusOK, map[string]string{
			"message": "if an account exists for this email, a reset code has been sent",
		})
	case errors.Is(err, verification.ErrDeliveryFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send the reset email, please try again")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process password reset request")
	}
}

func (s *Server) resetPassword(c echo.Context) error {
	var req verification.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}

	err := s.verificationSvc.ResetPassword(c.Request().Context(), &req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{
			"message": "your password has been reset, you can now log in",
		})
	case errors.Is(err, verification.ErrPasswordPolicy):
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	case errors.Is(err, verification.ErrPasswordMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	case errors.Is(err, verification.ErrCodeInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired verification code, please try again")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset password")
	}
}
