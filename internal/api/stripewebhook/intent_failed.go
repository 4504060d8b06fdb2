package stripewebhooks

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// handleIntentFailed is record-only: the order is flagged, no entitlement
// effect is applied.
func (h *Handler) handleIntentFailed(c *gin.Context, event *stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse payment intent"})
		return
	}

	reason := ""
	if pi.LastPaymentError != nil {
		reason = pi.LastPaymentError.Msg
	}

	if _, err := h.ledger.RecordFailure(event.ID, string(event.Type), pi.Metadata["orderId"], reason); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to record payment failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Str("event_id", event.ID).Str("payment_intent_id", pi.ID).Str("reason", reason).Msg("payment failed")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
