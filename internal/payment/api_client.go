package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// IntentAPI is how the orchestrator reaches the payment backend.
type IntentAPI interface {
	CreateIntent(ctx context.Context, req Request) (*Intent, error)
	VerifyPayment(ctx context.Context, paymentIntentID string) (*VerifyResult, error)
}

// Intent is the server-relayed gateway intent the wallet confirms against.
type Intent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// VerifyResult is the normalized verification outcome. Success false with a
// status is a valid non-exceptional result.
type VerifyResult struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
}

// APIClient talks to the intent and verification endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type createIntentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	OrderID     string          `json:"orderId"`
}

func (c *APIClient) CreateIntent(ctx context.Context, req Request) (*Intent, error) {
	var out Intent
	body := createIntentBody{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		OrderID:     req.OrderID,
	}
	if err := c.post(ctx, "/create-payment-intent", body, &out); err != nil {
		return nil, err
	}
	if out.ClientSecret == "" || out.PaymentIntentID == "" {
		return nil, fmt.Errorf("malformed payment intent response")
	}
	return &out, nil
}

func (c *APIClient) VerifyPayment(ctx context.Context, paymentIntentID string) (*VerifyResult, error) {
	var out VerifyResult
	body := map[string]string{"paymentIntentId": paymentIntentID}
	if err := c.post(ctx, "/verify-payment", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, string(detail))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
