package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"divination-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

type fakeGateway struct {
	createParams *stripe.PaymentIntentParams
	createResult *stripe.PaymentIntent
	createErr    error
	getResult    *stripe.PaymentIntent
	getErr       error
	createCalls  int
}

func (f *fakeGateway) CreateIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.createCalls++
	f.createParams = params
	return f.createResult, f.createErr
}

func (f *fakeGateway) GetIntent(id string) (*stripe.PaymentIntent, error) {
	return f.getResult, f.getErr
}

type fakeOrders struct {
	byOrderID map[string]*billing.Order
	upserted  []*billing.Order
}

func (f *fakeOrders) Upsert(order *billing.Order) error {
	f.upserted = append(f.upserted, order)
	return nil
}

func (f *fakeOrders) FindByOrderID(orderID string) (*billing.Order, error) {
	if f.byOrderID == nil {
		return nil, nil
	}
	return f.byOrderID[orderID], nil
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.POST("/create-payment-intent", h.CreateIntent)
	r.POST("/verify-payment", h.VerifyPayment)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateIntentSuccess(t *testing.T) {
	gw := &fakeGateway{createResult: &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "cs_123",
	}}
	orders := &fakeOrders{}
	r := newTestRouter(NewHandler(gw, orders))

	w := postJSON(t, r, "/create-payment-intent", map[string]interface{}{
		"amount":      90,
		"currency":    "TWD",
		"description": "I Ching divination",
		"orderId":     "iching_1700000000000",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_123", resp["clientSecret"])
	assert.Equal(t, "pi_123", resp["paymentIntentId"])

	require.NotNil(t, gw.createParams)
	assert.Equal(t, int64(9000), *gw.createParams.Amount, "major units become cents")
	assert.Equal(t, "twd", *gw.createParams.Currency)
	assert.Equal(t, "iching_1700000000000", gw.createParams.Metadata["orderId"])
	assert.Equal(t, billing.AppTag, gw.createParams.Metadata["app"])
	assert.True(t, *gw.createParams.AutomaticPaymentMethods.Enabled)

	require.Len(t, orders.upserted, 1)
	assert.Equal(t, billing.OrderPending, orders.upserted[0].Status)
	assert.Equal(t, int64(9000), orders.upserted[0].AmountCents)
}

func TestCreateIntentValidationNeverReachesGateway(t *testing.T) {
	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing orderId", map[string]interface{}{"amount": 90, "currency": "twd"}},
		{"zero amount", map[string]interface{}{"amount": 0, "currency": "twd", "orderId": "iching_1"}},
		{"negative amount", map[string]interface{}{"amount": -5, "currency": "twd", "orderId": "iching_1"}},
		{"missing amount", map[string]interface{}{"currency": "twd", "orderId": "iching_1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			r := newTestRouter(NewHandler(gw, &fakeOrders{}))
			w := postJSON(t, r, "/create-payment-intent", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, gw.createCalls)
		})
	}
}

func TestCreateIntentRejectsUnknownCurrency(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRouter(NewHandler(gw, &fakeOrders{}))
	w := postJSON(t, r, "/create-payment-intent", map[string]interface{}{
		"amount": 90, "currency": "XXX", "orderId": "iching_1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported currency")
	assert.Zero(t, gw.createCalls)
}

func TestCreateIntentGatewayFault(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("upstream says no")}
	r := newTestRouter(NewHandler(gw, &fakeOrders{}))
	w := postJSON(t, r, "/create-payment-intent", map[string]interface{}{
		"amount": 90, "currency": "twd", "orderId": "iching_1",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal Server Error", resp["error"])
	assert.Equal(t, "upstream says no", resp["message"])
}

func TestCreateIntentRetrySameOrderReusesIntent(t *testing.T) {
	intentID := "pi_existing"
	gw := &fakeGateway{getResult: &stripe.PaymentIntent{ID: intentID, ClientSecret: "cs_existing"}}
	orders := &fakeOrders{byOrderID: map[string]*billing.Order{
		"iching_1": {OrderID: "iching_1", PaymentIntentID: &intentID, Status: billing.OrderPending},
	}}
	r := newTestRouter(NewHandler(gw, orders))

	w := postJSON(t, r, "/create-payment-intent", map[string]interface{}{
		"amount": 90, "currency": "twd", "orderId": "iching_1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pi_existing")
	assert.Zero(t, gw.createCalls, "retry must not create a duplicate charge")
}

func TestCreateIntentWrongMethod(t *testing.T) {
	r := newTestRouter(NewHandler(&fakeGateway{}, &fakeOrders{}))
	req := httptest.NewRequest(http.MethodGet, "/create-payment-intent", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestVerifyPaymentSucceeded(t *testing.T) {
	gw := &fakeGateway{getResult: &stripe.PaymentIntent{
		ID:       "pi_123",
		Amount:   9000,
		Currency: "twd",
		Status:   stripe.PaymentIntentStatusSucceeded,
	}}
	r := newTestRouter(NewHandler(gw, &fakeOrders{}))

	w := postJSON(t, r, "/verify-payment", map[string]string{"paymentIntentId": "pi_123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success       bool    `json:"success"`
		TransactionID string  `json:"transactionId"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		Status        string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pi_123", resp.TransactionID)
	assert.Equal(t, 90.0, resp.Amount)
	assert.Equal(t, "twd", resp.Currency)
	assert.Equal(t, "succeeded", resp.Status)
}

func TestVerifyPaymentPendingIsNotAnError(t *testing.T) {
	gw := &fakeGateway{getResult: &stripe.PaymentIntent{
		ID:     "pi_123",
		Status: stripe.PaymentIntentStatusRequiresPaymentMethod,
	}}
	r := newTestRouter(NewHandler(gw, &fakeOrders{}))

	w := postJSON(t, r, "/verify-payment", map[string]string{"paymentIntentId": "pi_123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "requires_payment_method", resp["status"])
}

func TestVerifyPaymentMissingID(t *testing.T) {
	r := newTestRouter(NewHandler(&fakeGateway{}, &fakeOrders{}))
	w := postJSON(t, r, "/verify-payment", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentGatewayFault(t *testing.T) {
	gw := &fakeGateway{getErr: errors.New("stripe timeout")}
	r := newTestRouter(NewHandler(gw, &fakeOrders{}))
	w := postJSON(t, r, "/verify-payment", map[string]string{"paymentIntentId": "pi_123"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to verify payment")
}
