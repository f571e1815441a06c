// Package domain contains the order aggregate and its persistence models.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/orderdesk/internal/customer/domain"
	productdomain "github.com/smallbiznis/orderdesk/internal/product/domain"
	"github.com/smallbiznis/orderdesk/pkg/money"
	"github.com/smallbiznis/orderdesk/pkg/validation"
)

// Status is the order lifecycle state, stored as text.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Order owns its items. Total always equals the sum of the item line
// amounts captured at creation.
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	CustomerID int64           `gorm:"not null;index"`
	Status     Status          `gorm:"type:text;not null;default:'Pending'"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null;check:total >= 0"`
	CreatedAt  time.Time       `gorm:"not null;index"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	// Customer only carries the foreign key; it is never loaded.
	Customer *customerdomain.Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// OrderItem is immutable once stored. UnitPrice is the product price at the
// moment the order was placed.
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null;index"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;check:unit_price >= 0"`

	// Product only carries the foreign key; it is never loaded.
	Product *productdomain.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// TableName sets the database table name.
func (OrderItem) TableName() string { return "order_items" }

// LineTotal is quantity times the captured unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return money.LineAmount(i.Quantity, i.UnitPrice)
}

// Rehydrate rebuilds a stored order without recomputing its total.
func Rehydrate(id, customerID int64, status Status, total decimal.Decimal, createdAt time.Time, items []OrderItem) (*Order, error) {
	if id < 0 || customerID < 0 {
		return nil, ErrInvalidID
	}
	for _, item := range items {
		if item.ID < 0 || item.ProductID < 0 {
			return nil, ErrInvalidID
		}
	}
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Status:     status,
		Total:      total,
		CreatedAt:  createdAt,
		Items:      items,
	}, nil
}

// Line is a resolved request item: a quantity and the price it was sold at.
type Line struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewOrder builds an unsaved order from resolved lines, capturing each unit
// price and deriving the total.
func NewOrder(customerID int64, status Status, lines []Line, now time.Time) (*Order, error) {
	if customerID <= 0 {
		return nil, ErrInvalidID
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var errs validation.Errors
	items := make([]OrderItem, 0, len(lines))
	amounts := make([]decimal.Decimal, 0, len(lines))
	for i, line := range lines {
		item := OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: money.Round(line.UnitPrice),
		}
		if !money.Fits(item.LineTotal()) {
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "max", "line amount exceeds the storable maximum")
		}
		items = append(items, item)
		amounts = append(amounts, item.LineTotal())
	}
	total := money.Sum(amounts...)
	if !money.Fits(total) {
		errs.Add("items", "max", "order total exceeds the storable maximum")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &Order{
		CustomerID: customerID,
		Status:     status,
		Total:      total,
		CreatedAt:  now.UTC(),
		Items:      items,
	}, nil
}
