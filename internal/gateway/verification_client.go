// Package gateway contains HTTP clients for the sibling services the booking
// flow gates on.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
)

// VerificationClient reads document decisions from the verification service.
type VerificationClient struct {
	baseURL string
	client  *http.Client
}

// NewVerificationClient creates a verification gate client.
func NewVerificationClient(baseURL string) *VerificationClient {
	return &VerificationClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetVerificationStatus returns the document decision for a renter reference.
// An unknown renter reads as NOT_UPLOADED rather than an error.
func (c *VerificationClient) GetVerificationStatus(ctx context.Context, renterRef string) (booking.VerificationStatus, error) {
	url := fmt.Sprintf("%s/internal/v1/verifications/%s", c.baseURL, renterRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build verification request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call verification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return booking.VerificationNotUploaded, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verification service returned %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode verification response: %w", err)
	}
	return booking.VerificationStatus(body.Data.Status), nil
}
