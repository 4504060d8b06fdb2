package payments

import (
	"net/http"

	"divination-app/internal/domain/billing"
	stripeinfra "divination-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type verifyRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

// VerifyPayment handles POST /verify-payment. Read-only at the gateway. A
// pending or failed intent is a valid outcome ({success:false}), not an
// error; only a gateway fault is a 500.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var body verifyRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.PaymentIntentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment Intent ID is required"})
		return
	}

	pi, err := h.gateway.GetIntent(body.PaymentIntentID)
	if err != nil {
		log.Error().Err(err).Str("payment_intent_id", body.PaymentIntentID).Msg("verify payment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment", "message": err.Error()})
		return
	}

	if !stripeinfra.IntentSucceeded(pi.Status) {
		c.JSON(http.StatusOK, gin.H{"success": false, "status": string(pi.Status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"transactionId": pi.ID,
		"amount":        billing.FromCents(pi.Amount),
		"currency":      string(pi.Currency),
		"status":        string(pi.Status),
	})
}
