package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/money"
	"gorm.io/gorm"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, id int64, req UpdateRequest) error
	ToggleDelete(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, req ListRequest) (pagination.Page[Response], error)
	// FindActiveByIDs runs on the caller's transaction and skips deleted
	// products. Missing ids are simply absent from the result.
	FindActiveByIDs(ctx context.Context, tx *gorm.DB, ids []int64) (map[int64]Product, error)
}

type CreateRequest struct {
	Description string
	Price       *decimal.Decimal
}

type UpdateRequest struct {
	Description string
	Price       *decimal.Decimal
}

type ListRequest struct {
	pagination.Pagination
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type Response struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	CreatedAt   time.Time    `json:"createdAt"`
	IsDeleted   bool         `json:"isDeleted"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrDescriptionTaken = errors.New("description_taken")
)
