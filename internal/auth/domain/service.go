package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks
type Service interface {
	// EnsureUser creates the account when the username is free and reports
	// whether it did. Existing accounts are left as they are.
	EnsureUser(ctx context.Context, req CreateUserRequest) (*User, bool, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (*Claims, error)
}

type CreateUserRequest struct {
	Username string
	Password string
	Role     Role
}

type LoginRequest struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Role        Role
}
