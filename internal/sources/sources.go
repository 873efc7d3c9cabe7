// Package sources implements the upstream signal clients: Alchemy for
// token identity, GoPlus for contract security, DexScreener for DEX
// market data. Each client makes a single best-effort attempt per
// request — no retries — and runs behind a shared per-source circuit
// breaker. The orchestrator maps any client error to an absent signal;
// only ErrTokenNotFound is surfaced to the user.
package sources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/circuitbreaker"
	"github.com/tokenscout/tokenscout/internal/signals"
)

// ErrTokenNotFound means the identity source affirmatively reported the
// token does not exist, as opposed to the source being unreachable.
var ErrTokenNotFound = errors.New("token not found")

// Source names, used as breaker keys and metric labels.
const (
	SourceAlchemy     = "alchemy"
	SourceGoPlus      = "goplus"
	SourceDexScreener = "dexscreener"
)

// IdentityClient resolves a token address to its canonical metadata.
type IdentityClient interface {
	TokenMetadata(ctx context.Context, chain chains.Chain, address string) (signals.TokenMetadata, error)
}

// SecurityClient runs a contract-security scan. A (nil, nil) return means
// the scanner had no record of the token.
type SecurityClient interface {
	Scan(ctx context.Context, chain chains.Chain, address string) (*signals.SecuritySignal, error)
}

// MarketClient looks up DEX market data. A (nil, nil) return means no
// pairs are indexed for the token.
type MarketClient interface {
	Lookup(ctx context.Context, chain chains.Chain, address string) (*signals.MarketSignal, error)
}

// Set bundles the three clients the research service fans out to.
type Set struct {
	Identity IdentityClient
	Security SecurityClient
	Market   MarketClient
}

// Config carries the knobs shared by all clients.
type Config struct {
	AlchemyAPIKey      string
	GoPlusBaseURL      string
	DexScreenerBaseURL string
	FetchTimeout       time.Duration
	Breaker            *circuitbreaker.Breaker
	Logger             *slog.Logger
}

// NewSet builds the production client set.
func NewSet(cfg Config) *Set {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.Breaker == nil {
		cfg.Breaker = circuitbreaker.New(5, 30*time.Second)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Set{
		Identity: NewAlchemyClient(cfg),
		Security: NewGoPlusClient(cfg),
		Market:   NewDexScreenerClient(cfg),
	}
}

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New()
	if baseURL != "" {
		c.SetBaseURL(baseURL)
	}
	c.SetTimeout(timeout)
	c.SetHeader("Accept", "application/json")
	// One attempt per signal; absence on failure is the contract.
	c.SetRetryCount(0)
	return c
}
