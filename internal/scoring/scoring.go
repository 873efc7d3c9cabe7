// Package scoring implements the weighted heuristic scorers behind the
// legacy composite risk score.
//
// Each scorer maps one signal to an integer risk contribution in [0, 100]
// — higher is riskier — and the composite blends them 60/30/10. This scale
// is separate from the conservative decision engine's soft-point scale in
// package verdict; the two evolved independently and are surfaced
// independently, so keep them apart.
package scoring

import (
	"math"

	"github.com/tokenscout/tokenscout/internal/signals"
)

// RiskLevel buckets a composite score for display.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Composite blend weights. Security dominates: a clean market can't rescue
// a honeypot.
const (
	weightSecurity = 0.6
	weightMarket   = 0.3
	weightMetadata = 0.1
)

// Missing-data floors. An unindexed token is a more dangerous unknown than
// a token a scanner merely hasn't covered, hence the higher market floor.
const (
	missingSecurityScore = 30
	missingMarketScore   = 50
)

// SecurityScore converts a security scan into a 0..100 risk contribution.
// Contributions are additive and independent, except the tax bonus which is
// single-tier (highest applicable tier only).
func SecurityScore(sec *signals.SecuritySignal) int {
	if sec == nil {
		return missingSecurityScore
	}

	score := 0
	if sec.IsHoneypot {
		score += 60
	}
	if sec.HasHiddenOwner {
		score += 30
	}

	switch tax := sec.MaxTax(); {
	case tax > 0.10:
		score += 25
	case tax > 0.05:
		score += 15
	}

	if sec.IsMintable {
		score += 20
	}
	if sec.CanReclaimOwners {
		score += 20
	}
	if sec.IsBlacklistable {
		score += 15
	}
	if sec.HasTradingCooldown {
		score += 10
	}
	if sec.IsProxy {
		score += 5 // proxies are sometimes legitimate
	}

	return capScore(score)
}

// MarketScore converts DEX market data into a 0..100 risk contribution.
// Exactly one tier applies per dimension; FDV tiers only when the index
// reported a positive FDV; the volume:liquidity ratio penalty only when
// both are positive.
func MarketScore(market *signals.MarketSignal) int {
	if market == nil {
		return missingMarketScore
	}

	score := 0

	switch liq := market.LiquidityUSD; {
	case liq == 0:
		score += 50
	case liq < 1_000:
		score += 40
	case liq < 10_000:
		score += 25
	case liq < 50_000:
		score += 10
	case liq < 100_000:
		score += 5
	}

	switch vol := market.Volume24hUSD; {
	case vol == 0:
		score += 15
	case vol < 100:
		score += 10
	case vol < 1_000:
		score += 5
	}

	// Micro-cap penalty. Never applied to large caps or when FDV is unknown.
	if market.FDVUSD != nil && *market.FDVUSD > 0 {
		switch fdv := *market.FDVUSD; {
		case fdv < 200_000:
			score += 35
		case fdv < 1_000_000:
			score += 25
		case fdv < 5_000_000:
			score += 15
		case fdv < 20_000_000:
			score += 8
		}
	}

	// Volume far outpacing liquidity smells like wash trading or an
	// imminent rug. Only meaningful when both sides are nonzero.
	if market.LiquidityUSD > 0 && market.Volume24hUSD > 0 {
		switch ratio := market.Volume24hUSD / market.LiquidityUSD; {
		case ratio > 5:
			score += 10
		case ratio > 2:
			score += 5
		}
	}

	return capScore(score)
}

// MetadataScore penalizes missing identity fields. The 100 cap is
// unreachable here; it exists for uniformity with the other scorers.
func MetadataScore(meta signals.TokenMetadata) int {
	score := 0
	if !hasText(meta.Name) {
		score += 10
	}
	if !hasText(meta.Symbol) {
		score += 10
	}
	return capScore(score)
}

// Composite blends the three sub-scores into the legacy weighted score and
// its display bucket. This is a secondary output reported alongside the
// decision engine's verdict, never in place of it.
func Composite(security, market, metadata int) (int, RiskLevel) {
	score := int(math.Round(
		float64(security)*weightSecurity +
			float64(market)*weightMarket +
			float64(metadata)*weightMetadata))

	switch {
	case score < 26:
		return score, RiskLow
	case score < 61:
		return score, RiskMedium
	default:
		return score, RiskHigh
	}
}

func capScore(s int) int {
	if s > 100 {
		return 100
	}
	return s
}

func hasText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
