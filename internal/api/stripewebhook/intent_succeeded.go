package stripewebhooks

import (
	"encoding/json"
	"net/http"

	"divination-app/internal/domain/billing"
	stripeinfra "divination-app/internal/infra/stripe"
	"divination-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
)

// handleIntentSucceeded settles the originating order exactly once, keyed by
// the event id. Replays of an already-recorded event are acknowledged
// without reapplying side effects.
func (h *Handler) handleIntentSucceeded(c *gin.Context, event *stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse payment intent"})
		return
	}

	// Intents this app creates always carry both metadata keys. Anything
	// else on the account is not ours to settle; acknowledge it durably,
	// because a 500 here would have the sender retry forever.
	orderID := pi.Metadata["orderId"]
	if orderID == "" || pi.Metadata["app"] != billing.AppTag {
		if _, err := h.ledger.RecordIgnored(event.ID, string(event.Type)); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("failed to record ignored event")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		log.Warn().Str("event_id", event.ID).Str("payment_intent_id", pi.ID).Msg("succeeded intent without order metadata, ignoring")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	applied, err := h.ledger.SettlePayment(repository.SettleParams{
		EventID:         event.ID,
		EventType:       string(event.Type),
		OrderID:         orderID,
		PaymentIntentID: pi.ID,
		AmountCents:     pi.Amount,
		Currency:        string(pi.Currency),
		Status:          stripeinfra.NormalizeIntentStatus(pi.Status),
	})
	if err != nil {
		// Nothing was recorded, so a retry from the sender is safe.
		log.Error().Err(err).Str("event_id", event.ID).Str("payment_intent_id", pi.ID).Msg("failed to settle payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !applied {
		log.Info().Str("event_id", event.ID).Msg("duplicate webhook delivery, already settled")
	} else {
		log.Info().Str("event_id", event.ID).Str("order_id", orderID).Msg("payment settled")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
