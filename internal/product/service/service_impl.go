package service

import (
	"context"
	"errors"

	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/observability/metrics"
	"github.com/smallbiznis/orderdesk/internal/product/domain"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/money"
	"github.com/smallbiznis/orderdesk/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Clock   clock.Clock
	Listing *config.ListingConfigHolder `optional:"true"`
	Metrics *metrics.Metrics            `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	clock   clock.Clock
	listing *config.ListingConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("product.service"),
		repo:    p.Repo,
		clock:   p.Clock,
		listing: p.Listing,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	if err := domain.ValidateInput(req.Description, req.Price); err != nil {
		return nil, err
	}
	product, err := domain.New(req.Description, *req.Price, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureDescriptionAvailable(ctx, tx, product.Description, 0); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, product)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}

	s.metrics.RecordMutation(ctx, "product", "create")
	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Response, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	product, err := s.repo.FindByID(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(product)
	return &resp, nil
}

// Update changes the live price only. Order items keep the price captured
// when the order was placed.
func (s *Service) Update(ctx context.Context, id int64, req domain.UpdateRequest) error {
	if err := domain.ValidateInput(req.Description, req.Price); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrNotFound
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := product.Update(req.Description, *req.Price); err != nil {
			return err
		}
		if err := s.ensureDescriptionAvailable(ctx, tx, product.Description, product.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, product)
	})
	if err != nil {
		return s.mapWriteError(err)
	}

	s.metrics.RecordMutation(ctx, "product", "update")
	return nil
}

func (s *Service) ToggleDelete(ctx context.Context, id int64) (*domain.Response, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}

	var product *domain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.repo.FindByID(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if deleted := product.ToggleDeleted(); !deleted {
			if err := s.ensureDescriptionAvailable(ctx, tx, product.Description, product.ID); err != nil {
				return err
			}
		}
		return s.repo.SetDeleted(ctx, tx, product.ID, product.IsDeleted)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}

	operation := "restore"
	if product.IsDeleted {
		operation = "delete"
	}
	s.metrics.RecordMutation(ctx, "product", operation)
	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.Response], error) {
	var errs validation.Errors

	listing := s.listing.Get()
	page, err := req.Pagination.Normalize(listing.DefaultPageSize, listing.MaxPageSize)
	if err != nil {
		field, message := pagination.Violation(err)
		errs.Add(field, "invalid", message)
	}

	orderBy, err := domain.ResolveSort(req.Sort)
	if verrs, ok := validation.As(err); ok {
		errs.Fields = append(errs.Fields, verrs.Fields...)
	}

	if req.MinPrice != nil && req.MinPrice.IsNegative() {
		errs.Add("minPrice", "min", "minPrice must not be negative")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && req.MaxPrice.LessThan(*req.MinPrice) {
		errs.Add("maxPrice", "range", "maxPrice must not be less than minPrice")
	}
	if err := errs.Err(); err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	filter := domain.ListFilter{
		Search:   req.Search,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		OrderBy:  orderBy,
	}
	products, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	items := make([]domain.Response, 0, len(products))
	for i := range products {
		items = append(items, toResponse(&products[i]))
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *Service) FindActiveByIDs(ctx context.Context, tx *gorm.DB, ids []int64) (map[int64]domain.Product, error) {
	if tx == nil {
		tx = s.db
	}
	products, err := s.repo.FindActiveByIDs(ctx, tx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		p.Price = money.Round(p.Price)
		out[p.ID] = p
	}
	return out, nil
}

func (s *Service) ensureDescriptionAvailable(ctx context.Context, tx *gorm.DB, description string, selfID int64) error {
	existing, err := s.repo.FindByDescription(ctx, tx, description, false)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDescriptionTaken
	}
	return nil
}

func (s *Service) mapWriteError(err error) error {
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDescriptionTaken
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDescriptionTaken) {
		return err
	}
	if _, ok := validation.As(err); ok {
		return err
	}
	s.log.Debug("product write failed", zap.Error(err))
	return err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          p.ID,
		Description: p.Description,
		Price:       money.NewAmount(money.Round(p.Price)),
		CreatedAt:   p.CreatedAt,
		IsDeleted:   p.IsDeleted,
	}
}
