package payment

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCanonicalizes(t *testing.T) {
	req := Request{
		Amount:      decimal.RequireFromString("89.999"),
		Currency:    " TWD ",
		Description: "I Ching divination",
		OrderID:     "iching_1700000000000",
	}
	got, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "90", got.Amount.String())
	assert.Equal(t, "twd", got.Currency)
	assert.Equal(t, "iching_1700000000000", got.OrderID)
}

func TestNormalizeRejectsBadAmounts(t *testing.T) {
	for _, amt := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := Request{Amount: amt, Currency: "usd"}.Normalize()
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount=%s", amt)
	}
}

func TestNormalizeRejectsUnknownCurrency(t *testing.T) {
	_, err := Request{Amount: decimal.NewFromInt(10), Currency: "XXX"}.Normalize()
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestNormalizeTruncatesDescription(t *testing.T) {
	req := Request{
		Amount:      decimal.NewFromInt(90),
		Currency:    "twd",
		Description: strings.Repeat("问", 200),
	}
	got, err := req.Normalize()
	require.NoError(t, err)
	assert.Len(t, []rune(got.Description), 120)
}

func TestNormalizeGeneratesOrderID(t *testing.T) {
	got, err := Request{Amount: decimal.NewFromInt(90), Currency: "twd"}.Normalize()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.OrderID, "iching_"))

	again, err := Request{Amount: decimal.NewFromInt(90), Currency: "twd"}.Normalize()
	require.NoError(t, err)
	assert.NotEqual(t, got.OrderID, again.OrderID, "order ids are unique per attempt")
}

func TestMethodsForPlatform(t *testing.T) {
	assert.Equal(t, []Method{ApplePay}, MethodsForPlatform(PlatformIOS))
	assert.Equal(t, []Method{GooglePay}, MethodsForPlatform(PlatformAndroid))
	assert.Empty(t, MethodsForPlatform(PlatformWeb))
}
