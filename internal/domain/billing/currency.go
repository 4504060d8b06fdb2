package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies the gateway account is configured for. Requests outside this
// set are rejected before any gateway call.
var allowedCurrencies = map[string]struct{}{
	"usd": {},
	"eur": {},
	"twd": {},
	"jpy": {},
	"hkd": {},
	"sgd": {},
}

func CurrencyAllowed(code string) bool {
	_, ok := allowedCurrencies[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// ToCents converts a major-unit amount to the integer minor units the
// gateway expects.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts gateway minor units back to a major-unit amount for
// client responses.
func FromCents(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return f
}
