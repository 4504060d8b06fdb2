package payments

import (
	"net/http"
	"strings"

	"divination-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
)

type createIntentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	OrderID     string          `json:"orderId"`
}

// CreateIntent handles POST /create-payment-intent. Validation failures never
// reach the gateway; gateway faults come back as 500 with the upstream
// message attached for diagnosability.
func (h *Handler) CreateIntent(c *gin.Context) {
	var body createIntentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}
	if body.OrderID == "" || !body.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}
	currency := strings.ToLower(strings.TrimSpace(body.Currency))
	if !billing.CurrencyAllowed(currency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency"})
		return
	}
	description := body.Description
	if runes := []rune(description); len(runes) > 120 {
		description = string(runes[:120])
	}

	// A retried request with the same order id must not create a second
	// charge: hand back the intent already bound to that order.
	if existing, err := h.orders.FindByOrderID(body.OrderID); err == nil && existing != nil && existing.PaymentIntentID != nil {
		if pi, err := h.gateway.GetIntent(*existing.PaymentIntentID); err == nil {
			c.JSON(http.StatusOK, gin.H{"clientSecret": pi.ClientSecret, "paymentIntentId": pi.ID})
			return
		}
	}

	cents := billing.ToCents(body.Amount)
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(cents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("orderId", body.OrderID)
	params.AddMetadata("app", billing.AppTag)

	pi, err := h.gateway.CreateIntent(params)
	if err != nil {
		log.Error().Err(err).Str("order_id", body.OrderID).Msg("create payment intent failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": err.Error()})
		return
	}

	order := &billing.Order{
		OrderID:         body.OrderID,
		PaymentIntentID: &pi.ID,
		AmountCents:     cents,
		Currency:        currency,
		Description:     description,
		Status:          billing.OrderPending,
	}
	if err := h.orders.Upsert(order); err != nil {
		// The webhook reconciler recreates the order row from intent
		// metadata, so the intent is still returned.
		log.Error().Err(err).Str("order_id", body.OrderID).Msg("failed to record pending order")
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": pi.ClientSecret, "paymentIntentId": pi.ID})
}
