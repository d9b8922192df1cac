package httpserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/platform/internal/core/domain/verification"
	"github.com/pulsefit/platform/internal/infrastructure/httpserver"
	"github.com/pulsefit/platform/test/mocks"
)

func newTestServer(verificationSvc *mocks.VerificationServiceMock) *httpserver.Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return httpserver.NewServer(
		&httpserver.ServerConfig{
			Host:         "localhost",
			Port:         "0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		logger,
		httpserver.ServerDeps{
			VerificationService: verificationSvc,
			WorkoutService:      &mocks.WorkoutServiceMock{},
		},
	)
}

func doJSON(srv *httpserver.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestRequestVerificationCode(t *testing.T) {
	var requested string
	svc := &mocks.VerificationServiceMock{
		RequestEmailVerificationFn: func(ctx context.Context, email string) error {
			requested = email
			return nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verification-code", `{"email":"new@pulsefit.app"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new@pulsefit.app", requested)
	assert.Contains(t, rec.Body.String(), "verification code has been sent")
}

func TestRequestVerificationCode_MissingEmail(t *testing.T) {
	called := false
	svc := &mocks.VerificationServiceMock{
		RequestEmailVerificationFn: func(ctx context.Context, email string) error {
			called = true
			return nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verification-code", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestRequestVerificationCode_AlreadyVerified(t *testing.T) {
	svc := &mocks.VerificationServiceMock{
		RequestEmailVerificationFn: func(ctx context.Context, email string) error {
			return verification.ErrAlreadyVerified
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verification-code", `{"email":"done@pulsefit.app"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already verified")
}

func TestRequestVerificationCode_DeliveryFailed(t *testing.T) {
	svc := &mocks.VerificationServiceMock{
		RequestEmailVerificationFn: func(ctx context.Context, email string) error {
			return verification.ErrDeliveryFailed
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verification-code", `{"email":"bounce@pulsefit.app"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "request a new code")
}

func TestVerifyEmail(t *testing.T) {
	svc := &mocks.VerificationServiceMock{
		ConfirmEmailFn: func(ctx context.Context, email, code string) error {
			if email == "ok@pulsefit.app" && code == "123456" {
				return nil
			}
			return verification.ErrCodeInvalid
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verify-email", `{"email":"ok@pulsefit.app","code":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "has been verified")

	rec = doJSON(srv, http.MethodPost, "/api/v1/auth/verify-email", `{"email":"ok@pulsefit.app","code":"654321"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired verification code")
}

func TestVerifyEmail_MissingFields(t *testing.T) {
	srv := newTestServer(&mocks.VerificationServiceMock{})

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/verify-email", `{"email":"ok@pulsefit.app"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPassword_UniformResponse(t *testing.T) {
	// The handler answers identically for known and unknown accounts.
	svc := &mocks.VerificationServiceMock{
		RequestPasswordResetFn: func(ctx context.Context, email string) error {
			return nil
		},
	}
	srv := newTestServer(svc)

	known := doJSON(srv, http.MethodPost, "/api/v1/auth/forgot-password", `{"email":"member@pulsefit.app"}`)
	unknown := doJSON(srv, http.MethodPost, "/api/v1/auth/forgot-password", `{"email":"ghost@pulsefit.app"}`)

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Contains(t, known.Body.String(), "if an account exists")
}

func TestResetPassword(t *testing.T) {
	var got *verification.ResetPasswordRequest
	svc := &mocks.VerificationServiceMock{
		ResetPasswordFn: func(ctx context.Context, req *verification.ResetPasswordRequest) error {
			got = req
			return nil
		},
	}
	srv := newTestServer(svc)

	body := `{"email":"member@pulsefit.app","code":"123456","new_password":"longenough1","confirm_password":"longenough1"}`
	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/reset-password", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "member@pulsefit.app", got.Email)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "longenough1", got.NewPassword)
}

func TestResetPassword_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"policy", verification.ErrPasswordPolicy, http.StatusBadRequest, "at least 8 characters"},
		{"mismatch", verification.ErrPasswordMismatch, http.StatusBadRequest, "do not match"},
		{"invalid code", verification.ErrCodeInvalid, http.StatusBadRequest, "invalid or expired verification code"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.VerificationServiceMock{
				ResetPasswordFn: func(ctx context.Context, req *verification.ResetPasswordRequest) error {
					return tc.err
				},
			}
			srv := newTestServer(svc)

			body := `{"email":"member@pulsefit.app","code":"123456","new_password":"x","confirm_password":"y"}`
			rec := doJSON(srv, http.MethodPost, "/api/v1/auth/reset-password", body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestResetPassword_MissingFields(t *testing.T) {
	called := false
	svc := &mocks.VerificationServiceMock{
		ResetPasswordFn: func(ctx context.Context, req *verification.ResetPasswordRequest) error {
			called = true
			return nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(srv, http.MethodPost, "/api/v1/auth/reset-password", `{"email":"member@pulsefit.app","code":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}
