package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            uint64            `json:"id"`
	Username      string            `json:"username"`
	Email         string            `json:"email,omitempty"`
	FullName      string            `json:"full_name,omitempty"`
	Role          models.UserRole   `json:"role"`
	Status        models.UserStatus `json:"status"`
	EmailVerified bool              `json:"email_verified"`
	LastLogin     *time.Time        `json:"last_login,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// UserRefDTO is the minimal user projection embedded in task responses
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		Status:        user.Status,
		EmailVerified: user.EmailVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
	}
}

// ToUserRefDTO converts a User model to its minimal reference projection
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}
}
