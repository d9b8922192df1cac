package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsefit/platform/internal/application/services"
	"github.com/pulsefit/platform/internal/core/domain/user"
	"github.com/pulsefit/platform/internal/core/domain/verification"
	"github.com/pulsefit/platform/internal/core/ports"
	"github.com/pulsefit/platform/test/mocks"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func memberUser(email string, verified bool) *user.User {
	return &user.User{
		ID:         uuid.New(),
		Email:      email,
		Role:       user.RoleMember,
		IsVerified: verified,
	}
}

// newLifecycleService wires the service against the in-memory code store and a
// stateful user mock, and returns a capture slot for the last emailed code.
func newLifecycleService(t *testing.T, usr *user.User) (ports.VerificationService, *mocks.InMemoryCodeRepository, *string) {
	t.Helper()

	codes := mocks.NewInMemoryCodeRepository()
	lastSent := new(string)

	users := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if usr != nil && usr.Email == email {
				return usr, nil
			}
			return nil, errors.New("user with email " + email + " not found")
		},
		SetVerifiedFn: func(ctx context.Context, email string) error {
			usr.IsVerified = true
			return nil
		},
		SetPasswordHashFn: func(ctx context.Context, email, hash string) error {
			usr.PasswordHash = hash
			return nil
		},
	}

	email := &mocks.EmailServiceMock{
		SendVerificationCodeFn: func(ctx context.Context, email, code string) error {
			*lastSent = code
			return nil
		},
		SendPasswordResetCodeFn: func(ctx context.Context, email, code string) error {
			*lastSent = code
			return nil
		},
	}

	svc := services.NewVerificationService(codes, users, email, testLogger())
	return svc, codes, lastSent
}

func TestRequestEmailVerification_IssuesSixDigitCode(t *testing.T) {
	usr := memberUser("new@pulsefit.app", false)
	svc, codes, lastSent := newLifecycleService(t, usr)

	err := svc.RequestEmailVerification(context.Background(), usr.Email)
	require.NoError(t, err)

	require.Len(t, *lastSent, verification.CodeLength)
	for _, r := range *lastSent {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", *lastSent)
	}

	outstanding := codes.Outstanding(usr.Email, verification.PurposeEmailVerification)
	require.Len(t, outstanding, 1)
	rec := outstanding[0]
	assert.Equal(t, *lastSent, rec.Code)
	assert.Equal(t, verification.CodeTTL, rec.ExpiresAt.Sub(rec.CreatedAt))
	assert.False(t, rec.Used)
}

func TestRequestEmailVerification_ReissueSupersedesOldCode(t *testing.T) {
	usr := memberUser("resend@pulsefit.app", false)
	svc, codes, lastSent := newLifecycleService(t, usr)

	require.NoError(t, svc.RequestEmailVerification(context.Background(), usr.Email))
	firstCode := *lastSent

	require.NoError(t, svc.RequestEmailVerification(context.Background(), usr.Email))
	secondCode := *lastSent

	// Only the latest record may remain live.
	outstanding := codes.Outstanding(usr.Email, verification.PurposeEmailVerification)
	require.Len(t, outstanding, 1)
	assert.Equal(t, secondCode, outstanding[0].Code)

	if firstCode != secondCode {
		err := svc.ConfirmEmail(context.Background(), usr.Email, firstCode)
		assert.ErrorIs(t, err, verification.ErrCodeInvalid)
	}

	require.NoError(t, svc.ConfirmEmail(context.Background(), usr.Email, secondCode))
	assert.True(t, usr.IsVerified)
}

func TestRequestEmailVerification_AlreadyVerified(t *testing.T) {
	usr := memberUser("done@pulsefit.app", true)
	svc, codes, _ := newLifecycleService(t, usr)

	err := svc.RequestEmailVerification(context.Background(), usr.Email)
	assert.ErrorIs(t, err, verification.ErrAlreadyVerified)
	assert.Empty(t, codes.Outstanding(usr.Email, verification.PurposeEmailVerification))
}

func TestRequestEmailVerification_DeliveryFailureRollsBack(t *testing.T) {
	usr := memberUser("bounce@pulsefit.app", false)
	codes := mocks.NewInMemoryCodeRepository()

	users := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return usr, nil
		},
	}
	email := &mocks.EmailServiceMock{
		SendVerificationCodeFn: func(ctx context.Context, email, code string) error {
			return errors.New("sendgrid returned status 500")
		},
	}

	svc := services.NewVerificationService(codes, users, email, testLogger())

	err := svc.RequestEmailVerification(context.Background(), usr.Email)
	assert.ErrorIs(t, err, verification.ErrDeliveryFailed)

	// The undelivered code must not be redeemable.
	assert.Empty(t, codes.Outstanding(usr.Email, verification.PurposeEmailVerification))
}

func TestConfirmEmail_FullLifecycle(t *testing.T) {
	usr := memberUser("lifecycle@pulsefit.app", false)
	svc, _, lastSent := newLifecycleService(t, usr)
	ctx := context.Background()

	require.NoError(t, svc.RequestEmailVerification(ctx, usr.Email))
	code := *lastSent

	// Wrong code is rejected without burning the real one.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err := svc.ConfirmEmail(ctx, usr.Email, wrong)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)

	require.NoError(t, svc.ConfirmEmail(ctx, usr.Email, code))
	assert.True(t, usr.IsVerified)
}

func TestConfirmEmail_CodeIsSingleUse(t *testing.T) {
	usr := memberUser("once@pulsefit.app", false)
	svc, _, lastSent := newLifecycleService(t, usr)
	ctx := context.Background()

	require.NoError(t, svc.RequestEmailVerification(ctx, usr.Email))
	code := *lastSent

	require.NoError(t, svc.ConfirmEmail(ctx, usr.Email, code))

	// The account is verified now, so confirming again short-circuits.
	// Flip the flag back to prove the consumed code itself is dead.
	usr.IsVerified = false
	err := svc.ConfirmEmail(ctx, usr.Email, code)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
}

func TestConfirmEmail_AlreadyVerifiedShortCircuits(t *testing.T) {
	usr := memberUser("idempotent@pulsefit.app", true)
	svc, _, _ := newLifecycleService(t, usr)

	err := svc.ConfirmEmail(context.Background(), usr.Email, "123456")
	assert.NoError(t, err)
}

func TestConfirmEmail_RejectsCrossPurposeCode(t *testing.T) {
	usr := memberUser("crossed@pulsefit.app", false)
	svc, _, lastSent := newLifecycleService(t, usr)
	ctx := context.Background()

	// Issue a password reset code and try to redeem it as email verification.
	require.NoError(t, svc.RequestPasswordReset(ctx, usr.Email))
	resetCode := *lastSent

	err := svc.ConfirmEmail(ctx, usr.Email, resetCode)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
	assert.False(t, usr.IsVerified)
}

func TestConfirmEmail_ExpiredCodeRejected(t *testing.T) {
	usr := memberUser("late@pulsefit.app", false)
	codes := mocks.NewInMemoryCodeRepository()

	users := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return usr, nil
		},
	}

	svc := services.NewVerificationService(codes, users, &mocks.EmailServiceMock{}, testLogger())
	ctx := context.Background()

	// Plant a record whose window closed a second ago.
	expired := &verification.Code{
		ID:        uuid.New(),
		Email:     usr.Email,
		Code:      "424242",
		Purpose:   verification.PurposeEmailVerification,
		CreatedAt: time.Now().Add(-verification.CodeTTL - time.Second),
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, codes.Insert(ctx, expired))

	err := svc.ConfirmEmail(ctx, usr.Email, expired.Code)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
}

func TestFindValid_ExpiryBoundaryIsExclusive(t *testing.T) {
	codes := mocks.NewInMemoryCodeRepository()
	ctx := context.Background()

	now := time.Now()
	rec := &verification.Code{
		ID:        uuid.New(),
		Email:     "edge@pulsefit.app",
		Code:      "777777",
		Purpose:   verification.PurposeEmailVerification,
		CreatedAt: now,
		ExpiresAt: now.Add(verification.CodeTTL),
	}
	require.NoError(t, codes.Insert(ctx, rec))

	// One instant before expiry the code is still live.
	found, err := codes.FindValid(ctx, rec.Email, rec.Code, rec.Purpose, rec.ExpiresAt.Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)

	// Exactly at the expiry instant it is already dead.
	_, err = codes.FindValid(ctx, rec.Email, rec.Code, rec.Purpose, rec.ExpiresAt)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
}

func TestMarkUsed_SecondConsumeFails(t *testing.T) {
	codes := mocks.NewInMemoryCodeRepository()
	ctx := context.Background()

	rec := &verification.Code{
		ID:        uuid.New(),
		Email:     "spend@pulsefit.app",
		Code:      "101010",
		Purpose:   verification.PurposePasswordReset,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(verification.CodeTTL),
	}
	require.NoError(t, codes.Insert(ctx, rec))

	require.NoError(t, codes.MarkUsed(ctx, rec.ID))
	err := codes.MarkUsed(ctx, rec.ID)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
}

func TestRequestPasswordReset_UnknownEmailRevealsNothing(t *testing.T) {
	codes := mocks.NewInMemoryCodeRepository()
	sendCalled := false

	users := &mocks.UserRepositoryMock{} // every lookup fails
	email := &mocks.EmailServiceMock{
		SendPasswordResetCodeFn: func(ctx context.Context, email, code string) error {
			sendCalled = true
			return nil
		},
	}

	svc := services.NewVerificationService(codes, users, email, testLogger())

	err := svc.RequestPasswordReset(context.Background(), "ghost@pulsefit.app")
	assert.NoError(t, err)
	assert.False(t, sendCalled)
	assert.Empty(t, codes.Outstanding("ghost@pulsefit.app", verification.PurposePasswordReset))
}

func TestResetPassword_PolicyCheckedBeforeStore(t *testing.T) {
	usr := memberUser("weak@pulsefit.app", true)
	svc, _, lastSent := newLifecycleService(t, usr)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, usr.Email))
	code := *lastSent

	err := svc.ResetPassword(ctx, &verification.ResetPasswordRequest{
		Email:           usr.Email,
		Code:            code,
		NewPassword:     "short",
		ConfirmPassword: "short",
	})
	assert.ErrorIs(t, err, verification.ErrPasswordPolicy)

	err = svc.ResetPassword(ctx, &verification.ResetPasswordRequest{
		Email:           usr.Email,
		Code:            code,
		NewPassword:     "longenough1",
		ConfirmPassword: "longenough2",
	})
	assert.ErrorIs(t, err, verification.ErrPasswordMismatch)

	// Neither rejection may have burned the code.
	err = svc.ResetPassword(ctx, &verification.ResetPasswordRequest{
		Email:           usr.Email,
		Code:            code,
		NewPassword:     "longenough1",
		ConfirmPassword: "longenough1",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte("longenough1")))
}

func TestResetPassword_InvalidCode(t *testing.T) {
	usr := memberUser("noreset@pulsefit.app", true)
	svc, _, _ := newLifecycleService(t, usr)

	err := svc.ResetPassword(context.Background(), &verification.ResetPasswordRequest{
		Email:           usr.Email,
		Code:            "123456",
		NewPassword:     "longenough1",
		ConfirmPassword: "longenough1",
	})
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
	assert.Empty(t, usr.PasswordHash)
}

func TestResetPassword_CodeIsSingleUse(t *testing.T) {
	usr := memberUser("rotate@pulsefit.app", true)
	svc, _, lastSent := newLifecycleService(t, usr)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, usr.Email))
	code := *lastSent

	req := &verification.ResetPasswordRequest{
		Email:           usr.Email,
		Code:            code,
		NewPassword:     "firstchoice",
		ConfirmPassword: "firstchoice",
	}
	require.NoError(t, svc.ResetPassword(ctx, req))
	firstHash := usr.PasswordHash

	req.NewPassword = "secondchoice"
	req.ConfirmPassword = "secondchoice"
	err := svc.ResetPassword(ctx, req)
	assert.ErrorIs(t, err, verification.ErrCodeInvalid)
	assert.Equal(t, firstHash, usr.PasswordHash)
}
