package stripewebhooks

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// handleChargeRefunded syncs the refund into the ledger. Whether a refund
// revokes anything on the client is a policy question that does not belong
// here; the order is flagged and nothing else moves.
func (h *Handler) handleChargeRefunded(c *gin.Context, event *stripe.Event) {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse charge"})
		return
	}

	intentID := ""
	if ch.PaymentIntent != nil {
		intentID = ch.PaymentIntent.ID
	}

	if _, err := h.ledger.RecordRefund(event.ID, string(event.Type), intentID); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to record refund")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Str("event_id", event.ID).Str("charge_id", ch.ID).Msg("charge refunded")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
