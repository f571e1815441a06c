package service

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/smallbiznis/orderdesk/internal/clock"
	customerdomain "github.com/smallbiznis/orderdesk/internal/customer/domain"
	"github.com/smallbiznis/orderdesk/internal/observability/logger"
	"github.com/smallbiznis/orderdesk/internal/observability/metrics"
	"github.com/smallbiznis/orderdesk/internal/order/domain"
	productdomain "github.com/smallbiznis/orderdesk/internal/product/domain"
	"github.com/smallbiznis/orderdesk/internal/providers/pdf"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const receiptTimeLayout = "2006-01-02 15:04 UTC"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	Customers   customerdomain.Repository
	Products    productdomain.Service
	ProductRepo productdomain.Repository
	Clock       clock.Clock
	PDF         pdf.Provider     `optional:"true"`
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	customers   customerdomain.Repository
	products    productdomain.Service
	productRepo productdomain.Repository
	clock       clock.Clock
	pdf         pdf.Provider
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	provider := p.PDF
	if provider == nil {
		provider = &pdf.NoOpProvider{}
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		repo:        p.Repo,
		customers:   p.Customers,
		products:    p.Products,
		productRepo: p.ProductRepo,
		clock:       p.Clock,
		pdf:         provider,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	return s.create(ctx, req, domain.StatusPending)
}

func (s *Service) CreateSeeded(ctx context.Context, req domain.CreateRequest, status domain.Status) (*domain.Response, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.create(ctx, req, status)
}

// create validates the request shape, resolves the customer and every
// product, then writes the order and its items in one transaction bound to
// ctx. Nothing is written unless every reference resolves.
func (s *Service) create(ctx context.Context, req domain.CreateRequest, status domain.Status) (*domain.Response, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordOrderRejected(ctx, "validation")
		return nil, err
	}

	var order *domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindByID(ctx, tx, req.CustomerID, false)
		if err != nil {
			return err
		}
		if customer == nil {
			return &domain.CustomerNotFoundError{CustomerID: req.CustomerID}
		}

		products, err := s.products.FindActiveByIDs(ctx, tx, req.ProductIDs())
		if err != nil {
			return err
		}
		lines, err := resolveLines(req.Items, products)
		if err != nil {
			return err
		}

		order, err = domain.NewOrder(customer.ID, status, lines, s.clock.Now())
		if err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, order)
	})
	if err != nil {
		return nil, s.mapCreateError(ctx, err)
	}

	total, _ := order.Total.Float64()
	s.metrics.RecordOrderCreated(ctx, string(order.Status), total)
	logger.WithContext(ctx, s.log).Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)

	resp := domain.NewResponse(order)
	return &resp, nil
}

// resolveLines pairs each request item with its product price. Duplicate
// product ids become separate lines.
func resolveLines(items []domain.CreateItem, products map[int64]productdomain.Product) ([]domain.Line, error) {
	lines := make([]domain.Line, 0, len(items))
	var missing []int64
	seen := make(map[int64]struct{})
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			if _, dup := seen[item.ProductID]; !dup {
				seen[item.ProductID] = struct{}{}
				missing = append(missing, item.ProductID)
			}
			continue
		}
		lines = append(lines, domain.Line{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	if len(missing) > 0 {
		return nil, &domain.ProductNotFoundError{ProductIDs: missing}
	}
	return lines, nil
}

func (s *Service) mapCreateError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.RecordOrderRejected(ctx, "not_found")
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.metrics.RecordOrderRejected(ctx, "cancelled")
		return err
	case db.IsForeignKeyErr(err), db.IsDuplicateKeyErr(err):
		s.metrics.RecordOrderRejected(ctx, "conflict")
		logger.WithContext(ctx, s.log).Warn("order write conflicted", zap.Error(err))
		return domain.ErrConflict
	}
	if _, ok := validation.As(err); ok {
		s.metrics.RecordOrderRejected(ctx, "validation")
		return err
	}
	s.metrics.RecordOrderRejected(ctx, "error")
	return err
}

// GetByID returns the order even when its customer has since been deleted.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Response, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := domain.NewResponse(order)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	var errs validation.Errors
	if req.CustomerID < 0 {
		errs.Add("customerId", "invalid", "customerId must be a positive integer")
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		errs.Add("to", "range", "to must not be before from")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	orders, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CustomerID: req.CustomerID,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(orders))
	for i := range orders {
		out = append(out, domain.NewResponse(&orders[i]))
	}
	return out, nil
}

// Receipt renders the order as a PDF using the prices captured on its items.
func (s *Service) Receipt(ctx context.Context, id int64) (io.Reader, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	data := pdf.ReceiptData{
		OrderNumber: strconv.FormatInt(order.ID, 10),
		OrderDate:   order.CreatedAt.UTC().Format(receiptTimeLayout),
		Status:      string(order.Status),
		Total:       order.Total.StringFixed(2),
	}

	customer, err := s.customers.FindByID(ctx, s.db, order.CustomerID, true)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		data.CustomerName = customer.Name
		data.CustomerEmail = customer.Email
	}

	descriptions := make(map[int64]string)
	for _, item := range order.Items {
		if _, ok := descriptions[item.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.FindByID(ctx, s.db, item.ProductID, true)
		if err != nil {
			return nil, err
		}
		description := "Product " + strconv.FormatInt(item.ProductID, 10)
		if product != nil {
			description = product.Description
		}
		descriptions[item.ProductID] = description
	}

	for _, item := range order.Items {
		data.Items = append(data.Items, pdf.ReceiptItem{
			Description: descriptions[item.ProductID],
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal().StringFixed(2),
		})
	}

	return s.pdf.GenerateOrderReceipt(ctx, data)
}

func (s *Service) find(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
