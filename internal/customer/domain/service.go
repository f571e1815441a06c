package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateCustomerRequest) error
	ToggleDelete(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, req ListCustomerRequest) (pagination.Page[Response], error)
}

type CreateCustomerRequest struct {
	Name  string
	Email string
}

type UpdateCustomerRequest struct {
	Name  string
	Email string
}

type ListCustomerRequest struct {
	pagination.Pagination
	Search         string
	IncludeDeleted bool
}

type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	IsDeleted bool      `json:"isDeleted"`
}

var (
	ErrInvalidID  = errors.New("invalid_id")
	ErrNotFound   = errors.New("not_found")
	ErrEmailTaken = errors.New("email_taken")
)
