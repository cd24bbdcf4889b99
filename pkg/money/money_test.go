package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(18999), FromFloat(189.99))
	assert.Equal(t, int64(5550), FromFloat(55.5))
	assert.Equal(t, int64(1), FromFloat(0.005))
	assert.Equal(t, int64(0), FromFloat(0))
}

func TestParse(t *testing.T) {
	cents, err := Parse("59.75")
	require.NoError(t, err)
	assert.Equal(t, int64(5975), cents)

	_, err = Parse("fifty")
	assert.Error(t, err)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "200.00", Fixed(20000))
	assert.Equal(t, "0.05", Fixed(5))
	assert.Equal(t, "₱189.99", Format(DefaultSymbol, 18999))
	assert.Equal(t, 189.99, ToFloat(18999))
	assert.True(t, decimal.RequireFromString("189.99").Equal(ToDecimal(18999)))
}
