package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrEmptyOrder    = errors.New("empty_order")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
	ErrConflict      = errors.New("order_conflict")
)

// CustomerNotFoundError names the customer an order referenced.
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}

func (e *CustomerNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProductNotFoundError names every product id that did not resolve.
type ProductNotFoundError struct {
	ProductIDs []int64
}

func (e *ProductNotFoundError) Error() string {
	ids := make([]string, 0, len(e.ProductIDs))
	for _, id := range e.ProductIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	if len(ids) == 1 {
		return "product " + ids[0] + " not found"
	}
	return "products " + strings.Join(ids, ", ") + " not found"
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }
