package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID int64
	From       *time.Time
	To         *time.Time
}

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	// Insert writes the order and its items. Callers run it inside a
	// transaction.
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)
}
