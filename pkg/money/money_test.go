package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1",
		"2.675":  "2.68",
		"0.125":  "0.13",
		"-0.125": "-0.13",
		"99.9":   "99.9",
	}
	for in, want := range cases {
		got := Round(decimal.RequireFromString(in))
		assert.True(t, decimal.RequireFromString(want).Equal(got), "round(%s) = %s, want %s", in, got, want)
	}
}

func TestLineAmountAndSum(t *testing.T) {
	first := LineAmount(2, decimal.RequireFromString("50.00"))
	second := LineAmount(1, decimal.RequireFromString("30.00"))

	assert.Equal(t, "130.00", Sum(first, second).StringFixed(Scale))
}

func TestSumAvoidsBinaryFloatingPoint(t *testing.T) {
	total := Sum(
		LineAmount(1, decimal.RequireFromString("0.10")),
		LineAmount(1, decimal.RequireFromString("0.20")),
	)
	assert.True(t, decimal.RequireFromString("0.30").Equal(total))
}

func TestParse(t *testing.T) {
	d, err := Parse(" 10.555 ")
	require.NoError(t, err)
	assert.Equal(t, "10.56", d.StringFixed(Scale))

	_, err = Parse("ten")
	assert.Error(t, err)
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Price Amount `json:"price"`
	}{Price: NewAmount(decimal.RequireFromString("99.9"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":99.90}`, string(raw))
	assert.Contains(t, string(raw), "99.90")

	var decoded struct {
		Price Amount `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5}`), &decoded))
	assert.Equal(t, "12.50", decoded.Price.String())
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(MaxAmount))
	assert.True(t, Fits(MaxAmount.Neg()))
	assert.True(t, Fits(decimal.RequireFromString("9999999999.994")))
	assert.False(t, Fits(decimal.RequireFromString("9999999999.995")))
	assert.False(t, Fits(decimal.RequireFromString("10000000000")))
}
