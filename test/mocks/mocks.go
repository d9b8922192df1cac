package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsefit/platform/internal/core/domain/user"
	"github.com/pulsefit/platform/internal/core/domain/verification"
	"github.com/pulsefit/platform/internal/core/domain/workout"
	"github.com/pulsefit/platform/internal/core/ports"
)

// VerificationCodeRepositoryMock is a lightweight mock for VerificationCodeRepository
type VerificationCodeRepositoryMock struct {
	InsertFn                func(ctx context.Context, c *verification.Code) error
	InvalidateOutstandingFn func(ctx context.Context, email string, purpose verification.Purpose) error
	ReplaceFn               func(ctx context.Context, c *verification.Code) error
	FindValidFn             func(ctx context.Context, email, code string, purpose verification.Purpose, now time.Time) (*verification.Code, error)
	MarkUsedFn              func(ctx context.Context, id uuid.UUID) error
}

func (m *VerificationCodeRepositoryMock) Insert(ctx context.Context, c *verification.Code) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, c)
	}
	return nil
}
func (m *VerificationCodeRepositoryMock) InvalidateOutstanding(ctx context.Context, email string, purpose verification.Purpose) error {
	if m.InvalidateOutstandingFn != nil {
		return m.InvalidateOutstandingFn(ctx, email, purpose)
	}
	return nil
}
func (m *VerificationCodeRepositoryMock) Replace(ctx context.Context, c *verification.Code) error {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(ctx, c)
	}
	return nil
}
func (m *VerificationCodeRepositoryMock) FindValid(ctx context.Context, email, code string, purpose verification.Purpose, now time.Time) (*verification.Code, error) {
	if m.FindValidFn != nil {
		return m.FindValidFn(ctx, email, code, purpose, now)
	}
	return nil, verification.ErrCodeInvalid
}
func (m *VerificationCodeRepositoryMock) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if m.MarkUsedFn != nil {
		return m.MarkUsedFn(ctx, id)
	}
	return nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	GetByEmailFn      func(ctx context.Context, email string) (*user.User, error)
	SetVerifiedFn     func(ctx context.Context, email string) error
	SetPasswordHashFn func(ctx context.Context, email, hash string) error
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}
func (m *UserRepositoryMock) SetVerified(ctx context.Context, email string) error {
	if m.SetVerifiedFn != nil {
		return m.SetVerifiedFn(ctx, email)
	}
	return nil
}
func (m *UserRepositoryMock) SetPasswordHash(ctx context.Context, email, hash string) error {
	if m.SetPasswordHashFn != nil {
		return m.SetPasswordHashFn(ctx, email, hash)
	}
	return nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendVerificationCodeFn  func(ctx context.Context, email, code string) error
	SendPasswordResetCodeFn func(ctx context.Context, email, code string) error
}

func (m *EmailServiceMock) SendVerificationCode(ctx context.Context, email, code string) error {
	if m.SendVerificationCodeFn != nil {
		return m.SendVerificationCodeFn(ctx, email, code)
	}
	return nil
}
func (m *EmailServiceMock) SendPasswordResetCode(ctx context.Context, email, code string) error {
	if m.SendPasswordResetCodeFn != nil {
		return m.SendPasswordResetCodeFn(ctx, email, code)
	}
	return nil
}

// WorkoutRepositoryMock is a lightweight mock for WorkoutRepository
type WorkoutRepositoryMock struct {
	CreateFn      func(ctx context.Context, w *workout.Workout) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*workout.Workout, error)
	UpdateFn      func(ctx context.Context, w *workout.Workout) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	ListByUserFn  func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, error)
	CountByUserFn func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *WorkoutRepositoryMock) Create(ctx context.Context, w *workout.Workout) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}
func (m *WorkoutRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*workout.Workout, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("workout with ID %s not found", id)
}
func (m *WorkoutRepositoryMock) Update(ctx context.Context, w *workout.Workout) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, w)
	}
	return nil
}
func (m *WorkoutRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *WorkoutRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit, offset)
	}
	return nil, nil
}
func (m *WorkoutRepositoryMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}
	return 0, nil
}

// VerificationServiceMock is a lightweight mock for VerificationService
type VerificationServiceMock struct {
	RequestEmailVerificationFn func(ctx context.Context, email string) error
	ConfirmEmailFn             func(ctx context.Context, email, code string) error
	RequestPasswordResetFn     func(ctx context.Context, email string) error
	ResetPasswordFn            func(ctx context.Context, req *verification.ResetPasswordRequest) error
}

func (m *VerificationServiceMock) RequestEmailVerification(ctx context.Context, email string) error {
	if m.RequestEmailVerificationFn != nil {
		return m.RequestEmailVerificationFn(ctx, email)
	}
	return nil
}
func (m *VerificationServiceMock) ConfirmEmail(ctx context.Context, email, code string) error {
	if m.ConfirmEmailFn != nil {
		return m.ConfirmEmailFn(ctx, email, code)
	}
	return nil
}
func (m *VerificationServiceMock) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFn != nil {
		return m.RequestPasswordResetFn(ctx, email)
	}
	return nil
}
func (m *VerificationServiceMock) ResetPassword(ctx context.Context, req *verification.ResetPasswordRequest) error {
	if m.ResetPasswordFn != nil {
		return m.ResetPasswordFn(ctx, req)
	}
	return nil
}

// WorkoutServiceMock is a lightweight mock for WorkoutService
type WorkoutServiceMock struct {
	CreateWorkoutFn func(ctx context.Context, userID uuid.UUID, req *workout.CreateWorkoutRequest) (*workout.Workout, error)
	GetWorkoutFn    func(ctx context.Context, userID, id uuid.UUID) (*workout.Workout, error)
	UpdateWorkoutFn func(ctx context.Context, userID, id uuid.UUID, req *workout.UpdateWorkoutRequest) (*workout.Workout, error)
	DeleteWorkoutFn func(ctx context.Context, userID, id uuid.UUID) error
	ListWorkoutsFn  func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, int, error)
}

func (m *WorkoutServiceMock) CreateWorkout(ctx context.Context, userID uuid.UUID, req *workout.CreateWorkoutRequest) (*workout.Workout, error) {
	if m.CreateWorkoutFn != nil {
		return m.CreateWorkoutFn(ctx, userID, req)
	}
	return &workout.Workout{ID: uuid.New(), UserID: userID, Name: req.Name}, nil
}
func (m *WorkoutServiceMock) GetWorkout(ctx context.Context, userID, id uuid.UUID) (*workout.Workout, error) {
	if m.GetWorkoutFn != nil {
		return m.GetWorkoutFn(ctx, userID, id)
	}
	return nil, fmt.Errorf("workout with ID %s not found", id)
}
func (m *WorkoutServiceMock) UpdateWorkout(ctx context.Context, userID, id uuid.UUID, req *workout.UpdateWorkoutRequest) (*workout.Workout, error) {
	if m.UpdateWorkoutFn != nil {
		return m.UpdateWorkoutFn(ctx, userID, id, req)
	}
	return nil, fmt.Errorf("workout with ID %s not found", id)
}
func (m *WorkoutServiceMock) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteWorkoutFn != nil {
		return m.DeleteWorkoutFn(ctx, userID, id)
	}
	return nil
}
func (m *WorkoutServiceMock) ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*workout.Workout, int, error) {
	if m.ListWorkoutsFn != nil {
		return m.ListWorkoutsFn(ctx, userID, limit, offset)
	}
	return nil, 0, nil
}

// InMemoryCodeRepository implements the full verification code store
// semantics in memory, for exercising the issue/validate/consume lifecycle
// without a database.
type InMemoryCodeRepository struct {
	mu    sync.Mutex
	codes []*verification.Code
}

var _ ports.VerificationCodeRepository = (*InMemoryCodeRepository)(nil)

func NewInMemoryCodeRepository() *InMemoryCodeRepository {
	return &InMemoryCodeRepository{}
}

func (r *InMemoryCodeRepository) Insert(ctx context.Context, c *verification.Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *InMemoryCodeRepository) InvalidateOutstanding(ctx context.Context, email string, purpose verification.Purpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked(email, purpose)
	return nil
}

func (r *InMemoryCodeRepository) invalidateLocked(email string, purpose verification.Purpose) {
	for _, c := range r.codes {
		if c.Email == email && c.Purpose == purpose && !c.Used {
			c.Used = true
		}
	}
}

func (r *InMemoryCodeRepository) Replace(ctx context.Context, c *verification.Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked(c.Email, c.Purpose)
	cp := *c
	r.codes = append(r.codes, &cp)
	return nil
}

func (r *InMemoryCodeRepository) FindValid(ctx context.Context, email, code string, purpose verification.Purpose, now time.Time) (*verification.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *verification.Code
	for _, c := range r.codes {
		if c.Email != email || c.Code != code || c.Purpose != purpose || c.Used {
			continue
		}
		if !now.Before(c.ExpiresAt) {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, verification.ErrCodeInvalid
	}
	cp := *best
	return &cp, nil
}

func (r *InMemoryCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id {
			if c.Used {
				return verification.ErrCodeInvalid
			}
			c.Used = true
			return nil
		}
	}
	return verification.ErrCodeInvalid
}

// Outstanding returns the unused records for (email, purpose), expired or not.
func (r *InMemoryCodeRepository) Outstanding(email string, purpose verification.Purpose) []*verification.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*verification.Code
	for _, c := range r.codes {
		if c.Email == email && c.Purpose == purpose && !c.Used {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}
