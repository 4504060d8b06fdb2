package stripe

import (
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Gateway is the payment-intent surface the API handlers need. The handlers
// take this interface so tests can substitute a double for the live gateway.
type Gateway interface {
	CreateIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetIntent(id string) (*stripe.PaymentIntent, error)
}

// Client calls Stripe through a per-instance API client rather than the
// package-global key, so the key is injected once at startup.
type Client struct {
	api *client.API
}

func NewClient(secretKey string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}
}

func (c *Client) CreateIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return c.api.PaymentIntents.New(params)
}

func (c *Client) GetIntent(id string) (*stripe.PaymentIntent, error) {
	return c.api.PaymentIntents.Get(id, nil)
}
