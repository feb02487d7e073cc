package helpers

import (
	"time"

	model "auction-house/internal/models"
)

type RegisterRequest struct {
	Username     string `json:"username" form:"username" binding:"required"`
	Email        string `json:"email" form:"email" binding:"omitempty,email"`
	Password     string `json:"password" form:"password" binding:"required"`
	Confirmation string `json:"confirmation" form:"confirmation" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

// NewUserResponse converts a user for the wire; the password hash never leaves the server
func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
