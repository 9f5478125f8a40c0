package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insightful/insightful/internal/scrape"
)

// Client delivers save requests to a remote store-owning service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ scrape.Transport = (*Client)(nil)

// NewClient creates a transport client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendAndAwait posts the save request and returns the acknowledgment. A
// success=false acknowledgment is not a transport error: it means the channel
// worked and the save did not.
func (c *Client) SendAndAwait(ctx context.Context, req *scrape.SaveRequest) (*scrape.SaveResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach store service: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	var resp scrape.SaveResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("malformed acknowledgment (status %d): %w", httpResp.StatusCode, err)
	}
	return &resp, nil
}
