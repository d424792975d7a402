package refunds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPConfig configures the HTTP refund gateway.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPGateway posts refunds to a payment service REST endpoint.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway builds a gateway for the given service.
func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("refunds: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// ProcessRefund implements Gateway via POST /refunds.
func (g *HTTPGateway) ProcessRefund(ctx context.Context, bookingID string, amount float64) (bool, error) {
	if err := validate(bookingID, amount); err != nil {
		return false, err
	}
	var resp refundResponse
	if err := g.do(ctx, http.MethodPost, "/refunds", refundRequest{BookingID: bookingID, Amount: amount}, &resp); err != nil {
		return false, err
	}
	return resp.Approved, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("refunds: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("refunds: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("refunds: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("refunds: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("refunds: decode response: %w", err)
	}
	return nil
}

type refundRequest struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
}

type refundResponse struct {
	Approved bool   `json:"approved"`
	RefundID string `json:"refund_id,omitempty"`
}
