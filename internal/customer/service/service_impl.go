package service

import (
	"context"
	"errors"

	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/customer/domain"
	"github.com/smallbiznis/orderdesk/internal/observability/metrics"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
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
		log:     p.Log.Named("customer.service"),
		repo:    p.Repo,
		clock:   p.Clock,
		listing: p.Listing,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Response, error) {
	customer, err := domain.New(req.Name, req.Email, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureEmailAvailable(ctx, tx, customer.Email, 0); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, customer)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}

	s.metrics.RecordMutation(ctx, "customer", "create")
	resp := toResponse(customer)
	return &resp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Response, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	customer, err := s.repo.FindByID(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(customer)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.UpdateCustomerRequest) error {
	if id <= 0 {
		return domain.ErrNotFound
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.FindByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if err := customer.Update(req.Name, req.Email); err != nil {
			return err
		}
		if err := s.ensureEmailAvailable(ctx, tx, customer.Email, customer.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, customer)
	})
	if err != nil {
		return s.mapWriteError(err)
	}

	s.metrics.RecordMutation(ctx, "customer", "update")
	return nil
}

// ToggleDelete flips the tombstone. Restoring a customer is refused when
// another active customer has taken its email in the meantime.
func (s *Service) ToggleDelete(ctx context.Context, id int64) (*domain.Response, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}

	var customer *domain.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = s.repo.FindByID(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if deleted := customer.ToggleDeleted(); !deleted {
			if err := s.ensureEmailAvailable(ctx, tx, customer.Email, customer.ID); err != nil {
				return err
			}
		}
		return s.repo.SetDeleted(ctx, tx, customer.ID, customer.IsDeleted)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}

	operation := "restore"
	if customer.IsDeleted {
		operation = "delete"
	}
	s.metrics.RecordMutation(ctx, "customer", operation)
	resp := toResponse(customer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (pagination.Page[domain.Response], error) {
	listing := s.listing.Get()
	page, err := req.Pagination.Normalize(listing.DefaultPageSize, listing.MaxPageSize)
	if err != nil {
		return pagination.Page[domain.Response]{}, paginationError(err)
	}

	filter := domain.ListFilter{
		Search:         req.Search,
		IncludeDeleted: req.IncludeDeleted,
	}
	customers, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	items := make([]domain.Response, 0, len(customers))
	for i := range customers {
		items = append(items, toResponse(&customers[i]))
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, tx *gorm.DB, email string, selfID int64) error {
	existing, err := s.repo.FindByEmail(ctx, tx, email, false)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrEmailTaken
	}
	return nil
}

// mapWriteError turns a unique index violation that slipped past the
// pre-check into the same domain error the pre-check returns.
func (s *Service) mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrEmailTaken
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEmailTaken) {
		return err
	}
	if _, ok := validation.As(err); ok {
		return err
	}
	s.log.Debug("customer write failed", zap.Error(err))
	return err
}

func paginationError(err error) error {
	field, message := pagination.Violation(err)
	return validation.New(field, "invalid", message)
}

func toResponse(c *domain.Customer) domain.Response {
	return domain.Response{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		IsDeleted: c.IsDeleted,
	}
}
