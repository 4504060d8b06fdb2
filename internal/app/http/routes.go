package routes

import (
	"divination-app/internal/api/payments"
	stripewebhooks "divination-app/internal/api/stripewebhook"
	"divination-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers carries the constructed endpoint handlers. They are built once at
// startup and passed in, never reached through globals.
type Handlers struct {
	Payments *payments.Handler
	Webhook  *stripewebhooks.Handler
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// The payment client treats a wrong method as 405, not 404.
	r.HandleMethodNotAllowed = true

	// The webhook must see the raw signed bytes, so it stays outside the
	// sanitizing group.
	r.POST("/webhook", h.Webhook.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/create-payment-intent", h.Payments.CreateIntent)
	public.POST("/verify-payment", h.Payments.VerifyPayment)
}
