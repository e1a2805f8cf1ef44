// Package payments integrates the hosted payment provider: creating
// checkout sessions scoped to an order amount, reading session state back,
// and decoding signed webhook events. Payment state itself lives at the
// provider; this package never touches the database.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// Client talks to the hosted checkout API
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a payment API client. A nil httpClient falls back to a
// default with a 10 second timeout.
func NewClient(baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

// CheckoutSession is the provider's view of a hosted payment page
type CheckoutSession struct {
	ID            string            `json:"id"`
	ClientSecret  string            `json:"client_secret"`
	URL           string            `json:"url"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a hosted payment session for the given amount
// (in CHF, converted to cents on the wire) and attaches the order identity
// as session metadata so the webhook can find its way back to the order.
func (c *Client) CreateCheckoutSession(ctx context.Context, orderID string, amount float64, currency string) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"mode": "payment",
		"line_items": []map[string]interface{}{
			{
				"name":        "Commande Pizza",
				"description": fmt.Sprintf("Commande #%.8s", orderID),
				"unit_amount": toCents(amount),
				"quantity":    1,
			},
		},
		"currency": currency,
		"metadata": map[string]string{
			"orderId": orderID,
		},
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", payload, &session); err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, fmt.Errorf("payment provider returned an empty session id")
	}

	log.WithFields(log.Fields{
		"order_id":   orderID,
		"session_id": session.ID,
		"amount":     amount,
	}).Info("Created checkout session")

	return &session, nil
}

// GetSession retrieves the current state of a checkout session. Read-only:
// order updates happen exclusively through the webhook path.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	endpoint := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.get(ctx, endpoint, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("payment provider error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("payment provider error (%d): %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
