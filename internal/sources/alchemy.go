package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/circuitbreaker"
	"github.com/tokenscout/tokenscout/internal/signals"
)

// AlchemyClient resolves token identity over Alchemy's JSON-RPC
// alchemy_getTokenMetadata method. Chains without an Alchemy network get
// an empty metadata record; the reconciler fills identity from the
// security scan instead.
type AlchemyClient struct {
	http    *resty.Client
	apiKey  string
	baseURL string // test override; production URL is derived per chain
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

// NewAlchemyClient creates the identity client.
func NewAlchemyClient(cfg Config) *AlchemyClient {
	return &AlchemyClient{
		http:    newRestyClient("", cfg.FetchTimeout),
		apiKey:  cfg.AlchemyAPIKey,
		breaker: cfg.Breaker,
		logger:  cfg.Logger,
	}
}

// SetBaseURL overrides the derived endpoint, for tests.
func (c *AlchemyClient) SetBaseURL(u string) { c.baseURL = u }

type rpcRequest struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      int      `json:"id"`
	Method  string   `json:"method"`
	Params  []string `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tokenMetadataResponse struct {
	Result *struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Decimals *int   `json:"decimals"`
		Logo     string `json:"logo"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

func (c *AlchemyClient) endpoint(chain chains.Chain) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", chain.AlchemyNetwork, c.apiKey)
}

// TokenMetadata fetches the canonical identity record. A result with no
// name, symbol, or decimals is how Alchemy reports an unknown address;
// that maps to ErrTokenNotFound.
func (c *AlchemyClient) TokenMetadata(ctx context.Context, chain chains.Chain, address string) (signals.TokenMetadata, error) {
	if chain.AlchemyNetwork == "" && c.baseURL == "" {
		// No identity source for this chain; absent, not an error.
		return signals.TokenMetadata{}, nil
	}

	var out tokenMetadataResponse
	err := c.breaker.Do(SourceAlchemy, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(rpcRequest{
				JSONRPC: "2.0",
				ID:      1,
				Method:  "alchemy_getTokenMetadata",
				Params:  []string{address},
			}).
			SetResult(&out).
			Post(c.endpoint(chain))
		if err != nil {
			return fmt.Errorf("alchemy request: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("alchemy: status %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "identity lookup failed",
			"source", SourceAlchemy, "chain", chain.Slug, "error", err)
		return signals.TokenMetadata{}, err
	}

	if out.Error != nil {
		return signals.TokenMetadata{}, fmt.Errorf("alchemy: rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	r := out.Result
	if r == nil || (strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Symbol) == "" && r.Decimals == nil) {
		return signals.TokenMetadata{}, ErrTokenNotFound
	}

	meta := signals.TokenMetadata{
		Name:    strings.TrimSpace(r.Name),
		Symbol:  strings.TrimSpace(r.Symbol),
		LogoURL: r.Logo,
	}
	if r.Decimals != nil && *r.Decimals >= 0 {
		meta.Decimals = *r.Decimals
	}
	return meta, nil
}
