package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PaymentClient reads settlement state from the payment service.
type PaymentClient struct {
	baseURL string
	client  *http.Client
}

// NewPaymentClient creates a payment gate client.
func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetSettlementStatus reports whether the booking's charge has settled. A
// booking the payment service has never seen reads as not settled.
func (c *PaymentClient) GetSettlementStatus(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/internal/v1/payments/bookings/%s", c.baseURL, bookingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build payment request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call payment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment service returned %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Settled bool `json:"settled"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode payment response: %w", err)
	}
	return body.Data.Settled, nil
}
