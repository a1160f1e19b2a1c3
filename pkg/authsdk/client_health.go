package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	health, status, err := c.getHealth(ctx, "/livez")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: health.Status}
	}
	return health, nil
}

// GetReadiness checks if the service is ready. A degraded service answers
// 503; the per-check report is still returned alongside the *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	health, status, err := c.getHealth(ctx, "/readyz")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return health, &APIError{StatusCode: status, Message: health.Status}
	}
	return health, nil
}

func (c *SDKClient) getHealth(ctx context.Context, path string) (*HealthResponse, int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil || health.Status == "" {
		if apiErr := parseErrorResponse(resp, body); apiErr != nil {
			return nil, 0, apiErr
		}
		return nil, 0, fmt.Errorf("failed to decode health response: %w", err)
	}

	return &health, resp.StatusCode, nil
}
