// Package payment wraps the external payment gateway. The client is
// constructed once at process start and injected into whatever needs it.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the payment gateway's HTTP API.
type Client struct {
	baseURL    string
	serviceID  string
	httpClient *http.Client
}

// NewClient builds a payment client with a bounded request timeout.
func NewClient(baseURL, serviceID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		serviceID:  serviceID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreatePaymentRequest is the provider's create-payment payload.
type CreatePaymentRequest struct {
	ServiceID   string `json:"service_id"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// CreatePaymentResponse is the provider's create-payment result.
type CreatePaymentResponse struct {
	URL           string `json:"url"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// VerifyResponse is the provider's verify result. Fields the provider may
// omit are declared optional; Raw keeps the untouched payload for server-side
// diagnostics.
type VerifyResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Description   string `json:"description,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Success reports whether the provider confirmed the payment.
func (v *VerifyResponse) Success() bool {
	return v.Status == "success"
}

// CreatePayment starts a checkout with the provider and returns the redirect
// URL the buyer should be sent to.
func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if req.ServiceID == "" {
		req.ServiceID = c.serviceID
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create-payment", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var out CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if out.URL == "" {
		return nil, fmt.Errorf("payment provider returned no redirect url")
	}

	return &out, nil
}

// Verify asks the provider for the final state of a transaction.
func (c *Client) Verify(ctx context.Context, transactionID string) (*VerifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/verify/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, raw)
	}

	var out VerifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out.Raw = raw

	if out.TransactionID == "" {
		out.TransactionID = transactionID
	}

	return &out, nil
}
