package option

import (
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

func ApplyPagination(p pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if p.Limit() <= 0 {
			return db
		}
		return db.Offset(p.Offset()).Limit(p.Limit())
	})
}

// OrderBy names a column and direction. Column must come from a fixed
// whitelist, never from user input.
type OrderBy struct {
	Column string
	Desc   bool
}

func Asc(column string) OrderBy  { return OrderBy{Column: column} }
func Desc(column string) OrderBy { return OrderBy{Column: column, Desc: true} }

// ApplyOrder appends ORDER BY columns in the given order.
func ApplyOrder(orders ...OrderBy) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if len(orders) == 0 {
			return db
		}
		columns := make([]clause.OrderByColumn, 0, len(orders))
		for _, o := range orders {
			columns = append(columns, clause.OrderByColumn{
				Column: clause.Column{Name: o.Column},
				Desc:   o.Desc,
			})
		}
		return db.Order(clause.OrderBy{Columns: columns})
	})
}

func Apply(db *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		db = opt.Apply(db)
	}
	return db
}
