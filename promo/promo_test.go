package promo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	e := NewEngine(DefaultCodes)
	hundred := decimal.NewFromInt(100)

	res, err := e.Apply("fresh50", hundred)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "FRESH50", res.Code)
	assert.True(t, res.Discount.Equal(decimal.NewFromInt(50)))

	res, err = e.Apply("  summer25 ", hundred)
	require.NoError(t, err)
	assert.True(t, res.Discount.Equal(decimal.NewFromInt(25)), "a new code replaces the old discount")
}

func TestApplyErrors(t *testing.T) {
	e := NewEngine(DefaultCodes)
	hundred := decimal.NewFromInt(100)

	res, err := e.Apply("bogus", hundred)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.EqualError(t, err, "invalid code")
	assert.False(t, res.Applied)
	assert.True(t, res.Discount.IsZero())

	_, err = e.Apply("   ", hundred)
	assert.EqualError(t, err, "empty code")
}

func TestApplyExactDecimal(t *testing.T) {
	e := NewEngine(DefaultCodes)
	res, err := e.Apply("WELCOME20", decimal.RequireFromString("184.98"))
	require.NoError(t, err)
	assert.Equal(t, "36.996", res.Discount.String())
}

func TestCodes(t *testing.T) {
	e := NewEngine(map[string]decimal.Decimal{"b1": decimal.NewFromFloat(0.1), " a2 ": decimal.NewFromFloat(0.2)})
	assert.Equal(t, []string{"A2", "B1"}, e.Codes())
}
