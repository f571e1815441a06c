package domain

import (
	"context"
	"io"
	"time"

	"github.com/smallbiznis/orderdesk/pkg/money"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	// CreateSeeded follows the Create workflow with a caller-chosen status.
	CreateSeeded(ctx context.Context, req CreateRequest, status Status) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Receipt(ctx context.Context, id int64) (io.Reader, error)
}

type ListRequest struct {
	CustomerID int64
	From       *time.Time
	To         *time.Time
}

type ItemResponse struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice money.Amount `json:"unitPrice"`
	LineTotal money.Amount `json:"lineTotal"`
}

type Response struct {
	ID         int64          `json:"id"`
	CustomerID int64          `json:"customerId"`
	Status     Status         `json:"status"`
	Total      money.Amount   `json:"total"`
	CreatedAt  time.Time      `json:"createdAt"`
	Items      []ItemResponse `json:"items"`
}

// NewResponse projects a stored order.
func NewResponse(o *Order) Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: money.NewAmount(money.Round(item.UnitPrice)),
			LineTotal: money.NewAmount(item.LineTotal()),
		})
	}
	return Response{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Total:      money.NewAmount(money.Round(o.Total)),
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}
