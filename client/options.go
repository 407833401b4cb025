package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Query identifies the bridge transaction to get support options for.
type Query struct {
	Product     string
	FromNetwork string
	TxHash      string
	WalletName  string
}

// Properties is the resolved context the server selected options for.
type Properties struct {
	FromNetwork string `json:"fromNetwork"`
	TxHash      string `json:"txHash"`
	WalletName  string `json:"walletName"`
	TxAge       int64  `json:"txAge"`
	TxFrom      string `json:"txFrom"`
}

// OptionsResponse is the structured success payload.
// Options is kept raw since its shape is defined by the server's catalog.
type OptionsResponse struct {
	Message    string          `json:"message"`
	Properties Properties      `json:"properties"`
	Options    json.RawMessage `json:"options"`
}

// APIError is a rejection reported by the server.
type APIError struct {
	StatusCode int
	Message    string
	Values     []string
}

func (e *APIError) Error() string {
	if len(e.Values) == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed: %s: %s", e.Message, strings.Join(e.Values, "; "))
}

// Client is the HTTP client for the bridge support options service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new support options client.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// GetOptions fetches the structured options for a transaction.
func (c *Client) GetOptions(ctx context.Context, q Query) (*OptionsResponse, error) {
	resp, err := c.get(ctx, q, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var result OptionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("options retrieved",
		"from_network", result.Properties.FromNetwork,
		"tx_hash", result.Properties.TxHash,
		"tx_age", result.Properties.TxAge,
	)
	return &result, nil
}

// GetOptionsHTML fetches the rendered options markup for a transaction.
func (c *Client) GetOptionsHTML(ctx context.Context, q Query) (string, error) {
	resp, err := c.get(ctx, q, "text/html")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// Health checks that the server is up. It returns nil when /health answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned unhealthy status: %d", resp.StatusCode)
	}

	c.logger.Debug("server healthy", "base_url", c.baseURL, "latency", time.Since(start))
	return nil
}

func (c *Client) get(ctx context.Context, q Query, accept string) (*http.Response, error) {
	params := url.Values{}
	params.Set("fromNetwork", q.FromNetwork)
	params.Set("txHash", q.TxHash)
	params.Set("walletName", q.WalletName)

	u := fmt.Sprintf("%s/%s/options?%s", c.baseURL, url.PathEscape(q.Product), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// parseErrorResponse turns a non-200 response into an *APIError when the body allows it.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Error string   `json:"error"`
		Value []string `json:"value"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errResp.Error,
		Values:     errResp.Value,
	}
}
