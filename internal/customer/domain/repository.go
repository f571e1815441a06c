package domain

import (
	"context"

	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter narrows customer listings. Deleted rows are excluded unless
// IncludeDeleted is set.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
}

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64, includeDeleted bool) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string, includeDeleted bool) (*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	SetDeleted(ctx context.Context, db *gorm.DB, id int64, deleted bool) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Customer, int64, error)
}
