package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/orderdesk/pkg/money"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;check:price >= 0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	IsDeleted   bool            `json:"is_deleted" gorm:"not null;default:false"`
}

func (Product) TableName() string { return "products" }

// New validates a product that has not been stored yet. The price is rounded
// to cents.
func New(description string, price decimal.Decimal, now time.Time) (*Product, error) {
	description, price, err := validate(description, &price)
	if err != nil {
		return nil, err
	}
	return &Product{
		Description: description,
		Price:       price,
		CreatedAt:   now.UTC(),
	}, nil
}

// Rehydrate rebuilds a stored product without re-running field rules.
func Rehydrate(id int64, description string, price decimal.Decimal, createdAt time.Time, isDeleted bool) (*Product, error) {
	if id < 0 {
		return nil, ErrInvalidID
	}
	return &Product{
		ID:          id,
		Description: description,
		Price:       price,
		CreatedAt:   createdAt,
		IsDeleted:   isDeleted,
	}, nil
}

// Update applies the same rules as New and leaves the product untouched on
// failure.
func (p *Product) Update(description string, price decimal.Decimal) error {
	description, price, err := validate(description, &price)
	if err != nil {
		return err
	}
	p.Description = description
	p.Price = price
	return nil
}

func (p *Product) ToggleDeleted() bool {
	p.IsDeleted = !p.IsDeleted
	return p.IsDeleted
}

// ValidateInput checks raw request fields. A nil price means the field was
// absent.
func ValidateInput(description string, price *decimal.Decimal) error {
	_, _, err := validate(description, price)
	return err
}

func validate(description string, price *decimal.Decimal) (string, decimal.Decimal, error) {
	var errs validation.Errors

	description = strings.TrimSpace(description)
	if description == "" {
		errs.Add("description", "required", "description is required")
	}

	var rounded decimal.Decimal
	switch {
	case price == nil:
		errs.Add("price", "required", "price is required")
	case price.IsNegative():
		errs.Add("price", "min", "price must not be negative")
	case !money.Fits(*price):
		errs.Add("price", "max", "price must not exceed "+money.MaxAmount.StringFixed(money.Scale))
	default:
		rounded = money.Round(*price)
	}

	if err := errs.Err(); err != nil {
		return "", decimal.Zero, err
	}
	return description, rounded, nil
}
