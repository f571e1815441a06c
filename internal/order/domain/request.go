package domain

import (
	"fmt"

	"github.com/smallbiznis/orderdesk/pkg/validation"
)

// MaxQuantity bounds a single line so its amount stays within the stored
// numeric range for any realistic price.
const MaxQuantity = 10000

type CreateItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateRequest struct {
	CustomerID int64        `json:"customerId"`
	Items      []CreateItem `json:"items"`
}

// Validate checks the request shape without touching storage and reports
// every violated rule.
func (r CreateRequest) Validate() error {
	var errs validation.Errors

	if r.CustomerID <= 0 {
		errs.Add("customerId", "required", "customerId must be a positive integer")
	}
	if len(r.Items) == 0 {
		errs.Add("items", "required", "items must contain at least one item")
	}
	for i, item := range r.Items {
		if item.ProductID <= 0 {
			errs.Add(fmt.Sprintf("items[%d].productId", i), "required", "productId must be a positive integer")
		}
		switch {
		case item.Quantity <= 0:
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "min", "quantity must be greater than zero")
		case item.Quantity > MaxQuantity:
			errs.Add(fmt.Sprintf("items[%d].quantity", i), "max", fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
		}
	}

	return errs.Err()
}

// ProductIDs lists the referenced products in request order, duplicates
// included.
func (r CreateRequest) ProductIDs() []int64 {
	ids := make([]int64, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
