package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/orderdesk/pkg/db/option"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// OrderBy must already be resolved against the sort whitelist.
	OrderBy []option.OrderBy
}

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64, includeDeleted bool) (*Product, error)
	FindByDescription(ctx context.Context, db *gorm.DB, description string, includeDeleted bool) (*Product, error)
	FindActiveByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	SetDeleted(ctx context.Context, db *gorm.DB, id int64, deleted bool) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Product, int64, error)
}
