// Package billing talks to the payment gateway and digests its webhooks.
// The gateway is an opaque collaborator: we send it commands over HTTP and
// learn about outcomes only through webhook events.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/festside/festside/internal/core/domain"
)

var (
	// ErrGatewayUnavailable wraps transport-level failures. Callers surface
	// it as a retryable condition; nothing retries automatically.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
)

// Gateway is the payment provider surface the rest of the service uses.
type Gateway interface {
	// CreateCheckoutSession starts a checkout for the plan and returns the
	// URL to redirect the organizer to.
	CreateCheckoutSession(ctx context.Context, accountID string, planID domain.PlanID, yearly bool) (string, error)
	// CreatePortalSession returns the gateway's self-service portal URL.
	CreatePortalSession(ctx context.Context, accountID string) (string, error)
	CancelSubscription(ctx context.Context, gatewayRef string) error
	ReactivateSubscription(ctx context.Context, gatewayRef string) error
}

// =============================================================================
// HTTP Client
// =============================================================================

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, accountID string, planID domain.PlanID, yearly bool) (string, error) {
	interval := "monthly"
	if yearly {
		interval = "yearly"
	}
	var out struct {
		URL string `json:"url"`
	}
	err := c.post(ctx, "/v1/checkout/sessions", map[string]any{
		"account_id": accountID,
		"plan":       string(planID),
		"interval":   interval,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, accountID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	err := c.post(ctx, "/v1/portal/sessions", map[string]any{
		"account_id": accountID,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) CancelSubscription(ctx context.Context, gatewayRef string) error {
	return c.post(ctx, fmt.Sprintf("/v1/subscriptions/%s/cancel", gatewayRef), nil, nil)
}

func (c *Client) ReactivateSubscription(ctx context.Context, gatewayRef string) error {
	return c.post(ctx, fmt.Sprintf("/v1/subscriptions/%s/reactivate", gatewayRef), nil, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		c.logger.Error("gateway server error", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("gateway rejected request", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}

// =============================================================================
// Noop Client
// =============================================================================

// NoopClient satisfies Gateway without a configured provider. Checkout
// returns a placeholder URL; useful for local development.
type NoopClient struct{}

func (NoopClient) CreateCheckoutSession(_ context.Context, _ string, planID domain.PlanID, _ bool) (string, error) {
	return "https://example.invalid/checkout/" + string(planID), nil
}

func (NoopClient) CreatePortalSession(context.Context, string) (string, error) {
	return "https://example.invalid/portal", nil
}

func (NoopClient) CancelSubscription(context.Context, string) error { return nil }

func (NoopClient) ReactivateSubscription(context.Context, string) error { return nil }
