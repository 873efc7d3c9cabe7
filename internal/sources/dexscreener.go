package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/circuitbreaker"
	"github.com/tokenscout/tokenscout/internal/signals"
)

const defaultDexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerClient looks up DEX market data. DexScreener returns every
// indexed pair for a token; the first pair is the most liquid one and is
// what the market signal is built from.
type DexScreenerClient struct {
	http    *resty.Client
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

// NewDexScreenerClient creates the market client.
func NewDexScreenerClient(cfg Config) *DexScreenerClient {
	base := cfg.DexScreenerBaseURL
	if base == "" {
		base = defaultDexScreenerBaseURL
	}
	return &DexScreenerClient{
		http:    newRestyClient(base, cfg.FetchTimeout),
		breaker: cfg.Breaker,
		logger:  cfg.Logger,
	}
}

type dexPair struct {
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	FDV *float64 `json:"fdv"`
}

type dexScreenerResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// Lookup fetches market data for address. No indexed pairs means the
// token has no DEX presence: absent, not an error.
func (c *DexScreenerClient) Lookup(ctx context.Context, chain chains.Chain, address string) (*signals.MarketSignal, error) {
	var out dexScreenerResponse
	err := c.breaker.Do(SourceDexScreener, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			Get(fmt.Sprintf("/latest/dex/tokens/%s", address))
		if err != nil {
			return fmt.Errorf("dexscreener request: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("dexscreener: status %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "market lookup failed",
			"source", SourceDexScreener, "chain", chain.Slug, "error", err)
		return nil, err
	}

	if len(out.Pairs) == 0 {
		return nil, nil
	}
	pair := out.Pairs[0]

	sig := &signals.MarketSignal{
		LiquidityUSD: pair.Liquidity.USD,
		Volume24hUSD: pair.Volume.H24,
		FDVUSD:       pair.FDV,
	}
	if pair.PriceUSD != "" {
		if price, err := decimal.NewFromString(pair.PriceUSD); err == nil {
			sig.PriceUSD = &price
		}
	}
	return sig, nil
}
