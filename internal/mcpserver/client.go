package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to the TokenScout API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// TokenScoutClient is a pure HTTP client for the TokenScout API.
type TokenScoutClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewTokenScoutClient creates a new client for the TokenScout API.
func NewTokenScoutClient(cfg Config) *TokenScoutClient {
	return &TokenScoutClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP GET request to the API and returns the response body.
func (c *TokenScoutClient) doRequest(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// Research runs a full risk assessment for a token.
func (c *TokenScoutClient) Research(ctx context.Context, chain, address string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("chain", chain)
	q.Set("address", address)
	return c.doRequest(ctx, "/v1/research", q)
}

// ListChains returns the supported chains.
func (c *TokenScoutClient) ListChains(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, "/v1/chains", nil)
}

// Health returns the service health including upstream circuit state.
func (c *TokenScoutClient) Health(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, "/health", nil)
}
