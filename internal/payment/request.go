package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"divination-app/internal/domain/billing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPriceTWD is the per-divination price.
const DefaultPriceTWD = 90

const maxDescriptionLen = 120

var (
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrUnsupportedCurrency = errors.New("currency not supported")
)

// Request is one payment attempt's parameters. OrderID is unique per
// attempt; a retried attempt generates a fresh one.
type Request struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	OrderID     string
}

// DefaultRequest prices one divination.
func DefaultRequest(description string) Request {
	return Request{
		Amount:      decimal.NewFromInt(DefaultPriceTWD),
		Currency:    "twd",
		Description: description,
	}
}

// Normalize canonicalizes the request: amount rounded to two decimal places
// and positive, currency lowercased and allow-listed, description capped,
// order id generated when absent.
func (r Request) Normalize() (Request, error) {
	if !r.Amount.IsPositive() {
		return Request{}, ErrInvalidAmount
	}
	currency := strings.ToLower(strings.TrimSpace(r.Currency))
	if !billing.CurrencyAllowed(currency) {
		return Request{}, ErrUnsupportedCurrency
	}

	out := r
	out.Amount = r.Amount.Round(2)
	out.Currency = currency
	if runes := []rune(r.Description); len(runes) > maxDescriptionLen {
		out.Description = string(runes[:maxDescriptionLen])
	}
	if out.OrderID == "" {
		out.OrderID = GenerateOrderID()
	}
	return out, nil
}

// GenerateOrderID returns an id of the form iching_<unixmillis>_<entropy>.
func GenerateOrderID() string {
	return fmt.Sprintf("iching_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
