// Package signals defines the value objects flowing into the risk engine:
// contract-security scan results, DEX market data, and token identity
// metadata. All of them are request-scoped — built once from the upstream
// fetches, consumed by the scorers and decision engine, then discarded.
//
// A nil *SecuritySignal or *MarketSignal means the source returned nothing,
// which is itself risk-relevant. It is never the same thing as an all-zero
// value: a token with zero liquidity was found on a DEX, an unindexed token
// was not.
package signals

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SecuritySignal is the result of a contract-security scan.
// Tax fields are fractions, not percentages (0.10 = 10%).
type SecuritySignal struct {
	IsHoneypot         bool    `json:"isHoneypot"`
	BuyTax             float64 `json:"buyTax"`
	SellTax            float64 `json:"sellTax"`
	IsMintable         bool    `json:"isMintable"`
	CanReclaimOwners   bool    `json:"canReclaimOwnership"`
	IsBlacklistable    bool    `json:"isBlacklistable"`
	IsProxy            bool    `json:"isProxy"`
	HasHiddenOwner     bool    `json:"hasHiddenOwner"`
	HasTradingCooldown bool    `json:"hasTradingCooldown"`

	// Identity fields the scanner happened to report, used only by Reconcile.
	// TokenDecimals stays a string because scanners return it as one.
	TokenName     string `json:"tokenName,omitempty"`
	TokenSymbol   string `json:"tokenSymbol,omitempty"`
	TokenDecimals string `json:"tokenDecimals,omitempty"`
}

// MaxTax returns the higher of buy and sell tax.
func (s *SecuritySignal) MaxTax() float64 {
	if s.BuyTax > s.SellTax {
		return s.BuyTax
	}
	return s.SellTax
}

// MarketSignal is what a DEX index reports for a token.
type MarketSignal struct {
	LiquidityUSD float64 `json:"liquidityUsd"`
	Volume24hUSD float64 `json:"volume24hUsd"`

	// PriceUSD is kept as an exact decimal: DEX APIs report it as a string
	// and sub-cent tokens lose digits through float64.
	PriceUSD *decimal.Decimal `json:"priceUsd,omitempty"`

	// FDVUSD is fully diluted valuation. nil means the index didn't report
	// one, which is different from zero.
	FDVUSD *float64 `json:"fdvUsd,omitempty"`
}

// TokenMetadata is the canonical token identity. Always present, but fields
// may be empty when neither source knew them.
type TokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	TotalSupply string `json:"totalSupply,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

// Complete reports whether both name and symbol are non-blank.
func (m TokenMetadata) Complete() bool {
	return strings.TrimSpace(m.Name) != "" && strings.TrimSpace(m.Symbol) != ""
}

// Coverage records which of the three expected signal sources actually
// returned data. It only ever feeds confidence — never the risk level
// directly — and is recomputed per request.
type Coverage struct {
	HasMetadata bool `json:"hasMetadata"`
	HasSecurity bool `json:"hasSecurity"`
	HasMarket   bool `json:"hasMarket"`
}

// NewCoverage derives coverage from the reconciled metadata and the two
// optional signals.
func NewCoverage(meta TokenMetadata, sec *SecuritySignal, market *MarketSignal) Coverage {
	return Coverage{
		HasMetadata: meta.Complete(),
		HasSecurity: sec != nil,
		HasMarket:   market != nil,
	}
}

// Count returns how many sources returned data, 0..3.
func (c Coverage) Count() int {
	n := 0
	if c.HasMetadata {
		n++
	}
	if c.HasSecurity {
		n++
	}
	if c.HasMarket {
		n++
	}
	return n
}

// Reconcile merges the identity-service metadata with whatever identity
// fields a security scan reported, producing the one canonical record the
// rest of the request uses.
//
// A primary record that already has both name and symbol wins outright.
// Otherwise the security scan's fields fill the gaps, falling back to the
// primary's (possibly empty) values. Decimals are taken from the scan only
// when the string parses; anything else keeps the primary's value.
// Reconcile never fails — worst case it returns empty strings.
func Reconcile(primary TokenMetadata, sec *SecuritySignal) TokenMetadata {
	if primary.Complete() {
		return primary
	}
	if sec == nil {
		return primary
	}

	merged := primary
	if sec.TokenName != "" {
		merged.Name = sec.TokenName
	}
	if sec.TokenSymbol != "" {
		merged.Symbol = sec.TokenSymbol
	}
	if sec.TokenDecimals != "" {
		if d, err := strconv.Atoi(strings.TrimSpace(sec.TokenDecimals)); err == nil && d >= 0 {
			merged.Decimals = d
		}
	}
	return merged
}
