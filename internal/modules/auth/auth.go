package auth

import "context"

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the signed-in employee profile.
type LoginResponse struct {
	Token    string      `json:"token"`
	Employee interface{} `json:"employee"`
}
