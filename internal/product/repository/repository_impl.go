package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/orderdesk/internal/product/domain"
	pkgdb "github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/db/option"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64, includeDeleted bool) (*domain.Product, error) {
	var product domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id)
	if !includeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if err := stmt.Limit(1).Scan(&product).Error; err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindByDescription(ctx context.Context, db *gorm.DB, description string, includeDeleted bool) (*domain.Product, error) {
	var product domain.Product
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("description = ?", strings.TrimSpace(description))
	if !includeDeleted {
		stmt = stmt.Where("is_deleted = ?", false)
	}
	if err := stmt.Order("id ASC").Limit(1).Scan(&product).Error; err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindActiveByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id IN ?", ids).
		Where("is_deleted = ?", false).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET description = ?, price = ? WHERE id = ?`,
		product.Description,
		product.Price,
		product.ID,
	).Error
}

func (r *repo) SetDeleted(ctx context.Context, db *gorm.DB, id int64, deleted bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET is_deleted = ? WHERE id = ?`,
		deleted,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Product, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("is_deleted = ?", false)
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		stmt = stmt.Where("LOWER(description) LIKE ? ESCAPE '!'", pkgdb.ContainsPattern(term))
	}
	if filter.MinPrice != nil {
		stmt = stmt.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		stmt = stmt.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := filter.OrderBy
	if len(orders) == 0 {
		orders = []option.OrderBy{option.Asc("id")}
	}

	var products []domain.Product
	err := option.Apply(stmt,
		option.ApplyOrder(orders...),
		option.ApplyPagination(page),
	).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
