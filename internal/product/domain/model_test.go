package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/orderdesk/pkg/money"
	"github.com/smallbiznis/orderdesk/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Now()

	p, err := New("  Keyboard ", decimal.RequireFromString("49.995"), now)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Description)
	assert.Equal(t, "50.00", p.Price.StringFixed(2))

	_, err = New("", decimal.RequireFromString("-1"), now)
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("description"))
	assert.True(t, verrs.Has("price"))

	free, err := New("Sticker", decimal.Zero, now)
	require.NoError(t, err)
	assert.True(t, free.Price.IsZero())
}

func TestValidateInputRequiresPrice(t *testing.T) {
	err := ValidateInput("Mouse", nil)
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "price", verrs.Fields[0].Field)
	assert.Equal(t, "required", verrs.Fields[0].Code)
}

func TestValidateInputRejectsUnstorablePrice(t *testing.T) {
	price := decimal.RequireFromString("10000000000")
	err := ValidateInput("Yacht", &price)
	verrs, ok := validation.As(err)
	require.True(t, ok)
	require.Len(t, verrs.Fields, 1)
	assert.Equal(t, "price", verrs.Fields[0].Field)
	assert.Equal(t, "max", verrs.Fields[0].Code)

	price = money.MaxAmount
	assert.NoError(t, ValidateInput("Yacht", &price))
}

func TestProductUpdate(t *testing.T) {
	p, err := New("Mouse", decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)

	require.Error(t, p.Update(" ", decimal.NewFromInt(-5)))
	assert.Equal(t, "Mouse", p.Description)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(10)))

	require.NoError(t, p.Update("Mouse Pro", decimal.RequireFromString("12.5")))
	assert.Equal(t, "12.50", p.Price.StringFixed(2))
}

func TestRehydrateRejectsNegativeID(t *testing.T) {
	_, err := Rehydrate(-3, "x", decimal.Zero, time.Now(), false)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestResolveSort(t *testing.T) {
	cases := []struct {
		key     string
		first   string
		desc    bool
		columns int
	}{
		{key: "", first: "id", columns: 1},
		{key: "id", first: "id", columns: 1},
		{key: "price_asc", first: "price", columns: 2},
		{key: "PRICE_DESC", first: "price", desc: true, columns: 2},
		{key: "description_asc", first: "description", columns: 2},
		{key: "description_desc", first: "description", desc: true, columns: 2},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			cols, err := ResolveSort(tc.key)
			require.NoError(t, err)
			require.Len(t, cols, tc.columns)
			assert.Equal(t, tc.first, cols[0].Column)
			assert.Equal(t, tc.desc, cols[0].Desc)
			last := cols[len(cols)-1]
			assert.Equal(t, "id", last.Column)
			assert.False(t, last.Desc)
		})
	}

	_, err := ResolveSort("name; DROP TABLE products")
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "sort", verrs.Fields[0].Field)
}
