package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform account. The verification core only touches Email,
// IsVerified and PasswordHash; the remaining fields belong to the fitness
// profile surface.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	Age          *int       `json:"age,omitempty" db:"age"`
	HeightCm     *int       `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg     *float64   `json:"weight_kg,omitempty" db:"weight_kg"`
	Goal         *string    `json:"goal,omitempty" db:"goal"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleCoach  UserRole = "coach"
	RoleMember UserRole = "member"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleMember:
		return true
	default:
		return false
	}
}
