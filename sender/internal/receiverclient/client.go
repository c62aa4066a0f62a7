// Package receiverclient is the sender's HTTP client for the receiver
// service. One synchronous call per inbound request, no retries; trace
// context rides on the outbound headers.
package receiverclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/models"
	"github.com/tenantwave/tenantwave-demo/common/observability"
)

// Client communicates with the receiver's processing endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a new Client. The timeout bounds the whole forward call.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: observability.NewHTTPClient(timeout),
	}
}

// Process forwards the envelope to the receiver and decodes its response.
// Any failure to reach the receiver or a non-200 answer is returned as an
// error; the caller surfaces it as a gateway error.
func (c *Client) Process(ctx context.Context, req *models.ProcessRequest) (*models.ProcessResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("receiver client not configured")
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("receiver response status %d: %s", resp.StatusCode, errBody["error"])
	}

	var result models.ProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
