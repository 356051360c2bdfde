package auth

import "github.com/milkdist/warehouse-backend/internal/users"

// LoginRequest carries the credentials submitted by a client.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed JWT plus the authenticated profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *users.UserDTO `json:"user"`
}
