package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bellanapoli/pizzeria-api/internal/models"
	"github.com/bellanapoli/pizzeria-api/internal/payments"
	"github.com/bellanapoli/pizzeria-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func (f *apiFixture) paymentRouter(providerURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	client := payments.NewClient(providerURL, "sk_test_123", nil)
	controller := NewPaymentController(client, f.orders, testWebhookSecret, "chf")

	paymentsApi := router.Group("/api/v1/public/payments")
	{
		paymentsApi.POST("/checkout", controller.CreateCheckoutSession)
		paymentsApi.GET("/session", controller.GetSession)
		paymentsApi.POST("/webhook", controller.HandleWebhook)
	}
	return router
}

func (f *apiFixture) placeOrder(t *testing.T) models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(services.CheckoutRequest{
		GuestEmail:         "marie@example.ch",
		GuestName:          "Marie Dubois",
		DeliveryStreet:     "Rue du Bourg 12",
		DeliveryCity:       "Lausanne",
		DeliveryPostalCode: "1003",
		Cart: []services.CartLine{
			{PizzaID: f.pizzaID, SizeID: f.sizeID, CrustTypeID: f.crustID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	return order
}

// fakeProvider mimics the hosted checkout API's session creation, echoing
// the order metadata back the way the real provider does
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			Metadata map[string]string `json:"metadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(payments.CheckoutSession{
			ID:            "cs_test_123",
			ClientSecret:  "cs_test_123_secret",
			PaymentStatus: "unpaid",
			Metadata:      req.Metadata,
		})
	}))
}

func TestCreateCheckoutSessionEndpoint(t *testing.T) {
	fixture := setupAPIFixture(t)
	provider := fakeProvider(t)
	defer provider.Close()
	router := fixture.paymentRouter(provider.URL)

	order := fixture.placeOrder(t)

	w := doJSON(router, http.MethodPost, "/api/v1/public/payments/checkout", "", map[string]string{"orderId": order.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp["sessionId"])
	assert.Equal(t, "cs_test_123_secret", resp["clientSecret"])

	// the session reference is persisted for the webhook roundtrip
	stored, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentSessionID)
	assert.Equal(t, "cs_test_123", *stored.PaymentSessionID)

	t.Run("unknown order", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/public/payments/checkout", "", map[string]string{"orderId": "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateCheckoutSessionProviderDown(t *testing.T) {
	fixture := setupAPIFixture(t)
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":"internal","message":"boom"}}`)
	}))
	defer provider.Close()
	router := fixture.paymentRouter(provider.URL)

	order := fixture.placeOrder(t)

	w := doJSON(router, http.MethodPost, "/api/v1/public/payments/checkout", "", map[string]string{"orderId": order.ID})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// order payment state is untouched on provider failure
	stored, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PaymentSessionID)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
}

func webhookEvent(orderID string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_test_1",
		"type": payments.EventCheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_test_123",
				"metadata": map[string]string{"orderId": orderID},
			},
		},
	})
	return payload
}

func signedWebhookRequest(payload []byte) *http.Request {
	ts := time.Now().Unix()
	sig := payments.Sign(payload, testWebhookSecret, ts)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payments.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, sig))
	return req
}

func TestWebhookConfirmsOrder(t *testing.T) {
	fixture := setupAPIFixture(t)
	router := fixture.paymentRouter("http://unused")

	order := fixture.placeOrder(t)
	payload := webhookEvent(order.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedWebhookRequest(payload))
	require.Equal(t, http.StatusOK, w.Code)

	confirmed, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, confirmed.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)

	// replay after the kitchen picked the order up: accepted, no regression
	_, err = fixture.orders.UpdateStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, signedWebhookRequest(payload))
	require.Equal(t, http.StatusOK, w.Code)

	replayed, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, replayed.Status)
	assert.Equal(t, models.PaymentStatusPaid, replayed.PaymentStatus)
}

func TestWebhookRejectsBadDeliveries(t *testing.T) {
	fixture := setupAPIFixture(t)
	router := fixture.paymentRouter("http://unused")

	order := fixture.placeOrder(t)
	payload := webhookEvent(order.ID)

	t.Run("missing signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/payments/webhook", bytes.NewReader(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		ts := time.Now().Unix()
		sig := payments.Sign(payload, "whsec_wrong", ts)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/payments/webhook", bytes.NewReader(payload))
		req.Header.Set(payments.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, sig))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		ts := time.Now().Add(-time.Hour).Unix()
		sig := payments.Sign(payload, testWebhookSecret, ts)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/payments/webhook", bytes.NewReader(payload))
		req.Header.Set(payments.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, sig))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// rejected deliveries never touch the order
	stored, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestGetSessionEndpoint(t *testing.T) {
	fixture := setupAPIFixture(t)
	order := fixture.placeOrder(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_test_123", r.URL.Path)
		json.NewEncoder(w).Encode(payments.CheckoutSession{
			ID:            "cs_test_123",
			PaymentStatus: "paid",
			Metadata:      map[string]string{"orderId": order.ID},
		})
	}))
	defer provider.Close()
	router := fixture.paymentRouter(provider.URL)

	w := doJSON(router, http.MethodGet, "/api/v1/public/payments/session?session_id=cs_test_123", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, order.ID, resp["orderId"])
	assert.Equal(t, "paid", resp["paymentStatus"])
	assert.Equal(t, models.OrderStatusPending, resp["orderStatus"])

	t.Run("missing session id", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/public/payments/session", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// reading the session back never mutates the order
	stored, err := fixture.orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
}
