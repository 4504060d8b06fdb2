package stripewebhooks

import (
	"io"
	"net/http"

	"divination-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Handler reconciles gateway events against the order ledger. It is the
// correctness backstop: the ledger reaches the paid outcome even when the
// client never calls the verify endpoint.
//
// Response contract: 400 only for a bad signature (sender must not retry),
// 200 once the event is durably recorded (including replays and unknown
// types), 500 when recording failed so the sender retries.
type Handler struct {
	secret string
	ledger *repository.Ledger
}

func NewHandler(endpointSecret string, ledger *repository.Ledger) *Handler {
	return &Handler{secret: endpointSecret, ledger: ledger}
}

func (h *Handler) HandleWebhook(c *gin.Context) {
	payload, err := readRawBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.handleIntentSucceeded(c, &event)
	case "payment_intent.payment_failed":
		h.handleIntentFailed(c, &event)
	case "charge.refunded":
		h.handleChargeRefunded(c, &event)
	default:
		// Acknowledge unknown events so the sender stops retrying them.
		log.Info().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("ignoring unhandled webhook event")
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// Signature verification needs the exact bytes the sender signed, so the
// body is read raw and never routed through a JSON middleware.
func readRawBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
