package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/orderdesk/internal/customer/domain"
	pkgdb "github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/db/option"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64, includeDeleted bool) (*domain.Customer, error) {
	var customer domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id)
	if !includeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if err := stmt.Limit(1).Scan(&customer).Error; err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string, includeDeleted bool) (*domain.Customer, error) {
	var customer domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("LOWER(email) = ?", domain.NormalizeEmail(email))
	if !includeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if err := stmt.Order("id ASC").Limit(1).Scan(&customer).Error; err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET name = ?, email = ? WHERE id = ?`,
		customer.Name,
		customer.Email,
		customer.ID,
	).Error
}

func (r *repo) SetDeleted(ctx context.Context, db *gorm.DB, id int64, deleted bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET is_deleted = ? WHERE id = ?`,
		deleted,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Customer, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if !filter.IncludeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := pkgdb.ContainsPattern(term)
		stmt = stmt.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')", like, like)
	}

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []domain.Customer
	err := option.Apply(stmt,
		option.ApplyOrder(option.Asc("id")),
		option.ApplyPagination(page),
	).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
