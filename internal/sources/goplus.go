package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/circuitbreaker"
	"github.com/tokenscout/tokenscout/internal/signals"
)

const defaultGoPlusBaseURL = "https://api.gopluslabs.io"

// GoPlusClient runs contract-security scans against the GoPlus token
// security API. GoPlus encodes booleans as "1"/"0" strings and taxes as
// decimal-fraction strings; the raw record is normalized into a
// SecuritySignal here so nothing downstream sees the wire format.
type GoPlusClient struct {
	http    *resty.Client
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

// NewGoPlusClient creates the security client.
func NewGoPlusClient(cfg Config) *GoPlusClient {
	base := cfg.GoPlusBaseURL
	if base == "" {
		base = defaultGoPlusBaseURL
	}
	return &GoPlusClient{
		http:    newRestyClient(base, cfg.FetchTimeout),
		breaker: cfg.Breaker,
		logger:  cfg.Logger,
	}
}

// goPlusToken is the per-address record in a GoPlus response.
type goPlusToken struct {
	IsHoneypot       string `json:"is_honeypot"`
	BuyTax           string `json:"buy_tax"`
	SellTax          string `json:"sell_tax"`
	IsMintable       string `json:"is_mintable"`
	CanTakeBackOwner string `json:"can_take_back_ownership"`
	IsBlacklisted    string `json:"is_blacklisted"`
	IsProxy          string `json:"is_proxy"`
	HiddenOwner      string `json:"hidden_owner"`
	TradingCooldown  string `json:"trading_cooldown"`
	TokenName        string `json:"token_name"`
	TokenSymbol      string `json:"token_symbol"`
}

type goPlusResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Result  map[string]goPlusToken `json:"result"`
}

// Scan fetches the security record for address. GoPlus keys its result
// map by lowercased address; an empty map means the token was never
// scanned, which is absence rather than an error.
func (c *GoPlusClient) Scan(ctx context.Context, chain chains.Chain, address string) (*signals.SecuritySignal, error) {
	var out goPlusResponse
	err := c.breaker.Do(SourceGoPlus, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("contract_addresses", address).
			SetResult(&out).
			Get(fmt.Sprintf("/api/v1/token_security/%s", chain.GoPlusChainID))
		if err != nil {
			return fmt.Errorf("goplus request: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("goplus: status %d", resp.StatusCode())
		}
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "security scan failed",
			"source", SourceGoPlus, "chain", chain.Slug, "error", err)
		return nil, err
	}

	tok, ok := out.Result[strings.ToLower(address)]
	if !ok {
		// Fall back to the exact key; Tron addresses are case-sensitive.
		if tok, ok = out.Result[address]; !ok {
			return nil, nil
		}
	}

	return &signals.SecuritySignal{
		IsHoneypot:         flag(tok.IsHoneypot),
		BuyTax:             fraction(tok.BuyTax),
		SellTax:            fraction(tok.SellTax),
		IsMintable:         flag(tok.IsMintable),
		CanReclaimOwners:   flag(tok.CanTakeBackOwner),
		IsBlacklistable:    flag(tok.IsBlacklisted),
		IsProxy:            flag(tok.IsProxy),
		HasHiddenOwner:     flag(tok.HiddenOwner),
		HasTradingCooldown: flag(tok.TradingCooldown),
		TokenName:          tok.TokenName,
		TokenSymbol:        tok.TokenSymbol,
	}, nil
}

// flag decodes GoPlus's "1"/"0" string booleans. Anything unparseable is
// treated as false: a malformed field must not manufacture a red flag.
func flag(s string) bool {
	return strings.TrimSpace(s) == "1"
}

// fraction decodes a decimal-fraction tax string ("0.05" = 5%). Empty or
// malformed values read as zero tax.
func fraction(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
