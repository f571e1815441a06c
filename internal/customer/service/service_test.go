package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/customer/domain"
	"github.com/smallbiznis/orderdesk/internal/customer/repository"
	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/smallbiznis/orderdesk/pkg/db/pagination"
	"github.com/smallbiznis/orderdesk/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Customer{}))

	return New(Params{
		DB:      conn,
		Log:     zaptest.NewLogger(t),
		Repo:    repository.Provide(),
		Clock:   clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Listing: config.NewStaticListingConfigHolder(config.ListingConfig{DefaultPageSize: 10, MaxPageSize: 20}),
	})
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alice", Email: "Alice@Example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)

	_, err = svc.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Other", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Len(t, verrs.Fields, 2)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	t.Run("keeps own email", func(t *testing.T) {
		err := svc.Update(ctx, alice.ID, domain.UpdateCustomerRequest{Name: "Alicia", Email: "alice@example.com"})
		require.NoError(t, err)
		got, err := svc.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.Name)
	})

	t.Run("rejects email of another customer", func(t *testing.T) {
		err := svc.Update(ctx, alice.ID, domain.UpdateCustomerRequest{Name: "Alicia", Email: bob.Email})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("missing customer", func(t *testing.T) {
		err := svc.Update(ctx, 9999, domain.UpdateCustomerRequest{Name: "X", Email: "x@example.com"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestToggleDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := svc.ToggleDelete(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = svc.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, alice.ID, domain.UpdateCustomerRequest{Name: "A", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The email is free again while the customer is deleted.
	reuse, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "New Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.ToggleDelete(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.ToggleDelete(ctx, reuse.ID)
	require.NoError(t, err)
	restored, err := svc.ToggleDelete(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	_, err = svc.ToggleDelete(ctx, 424242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %02d", i),
			Email: fmt.Sprintf("c%02d@example.com", i),
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Zed Smith", Email: "zed@other.org"})
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListCustomerRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(26), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.PageSize)
		assert.Len(t, page.Items, 10)
		assert.Less(t, page.Items[0].ID, page.Items[1].ID)
	})

	t.Run("page size capped", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{Page: 2, PageSize: 500}})
		require.NoError(t, err)
		assert.Equal(t, 20, page.PageSize)
		assert.Len(t, page.Items, 6)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{Page: 9}})
		require.NoError(t, err)
		assert.Equal(t, int64(26), page.Total)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
	})

	t.Run("search is case-insensitive over name and email", func(t *testing.T) {
		page, err := svc.List(ctx, domain.ListCustomerRequest{Search: "SMITH"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Zed Smith", page.Items[0].Name)

		page, err = svc.List(ctx, domain.ListCustomerRequest{Search: "other.org"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("deleted customers hidden unless requested", func(t *testing.T) {
		first, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{PageSize: 1}})
		require.NoError(t, err)
		_, err = svc.ToggleDelete(ctx, first.Items[0].ID)
		require.NoError(t, err)

		page, err := svc.List(ctx, domain.ListCustomerRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(25), page.Total)

		page, err = svc.List(ctx, domain.ListCustomerRequest{IncludeDeleted: true})
		require.NoError(t, err)
		assert.Equal(t, int64(26), page.Total)
	})

	t.Run("negative page rejected", func(t *testing.T) {
		_, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{Page: -1}})
		verrs, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "page", verrs.Fields[0].Field)
	})

	t.Run("page beyond the bound rejected", func(t *testing.T) {
		_, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{Page: math.MaxInt, PageSize: 20}})
		verrs, ok := validation.As(err)
		require.True(t, ok)
		assert.Equal(t, "page", verrs.Fields[0].Field)
		assert.Contains(t, verrs.Fields[0].Message, "must not exceed")
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		for _, term := range []string{"%", "_", "c_1"} {
			page, err := svc.List(ctx, domain.ListCustomerRequest{Search: term, IncludeDeleted: true})
			require.NoError(t, err)
			assert.Zero(t, page.Total, "search %q", term)
		}
	})
}
