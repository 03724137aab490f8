package user

import (
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleHOD     Role = "hod"
	RoleTPO     Role = "tpo"
)

func IsValidRole(role Role) bool {
	switch role {
	case RoleStudent, RoleHOD, RoleTPO:
		return true
	default:
		return false
	}
}

type User struct {
	ID           common.UUID `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
