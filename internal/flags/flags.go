// Package flags turns signals into discrete, severity-tagged warnings for
// display. The rule table is fixed and evaluated top to bottom; rules are
// independent, so several flags can fire for the same token. Append order
// is the display order.
package flags

import (
	"fmt"

	"github.com/tokenscout/tokenscout/internal/signals"
)

// Severity grades a flag for the UI.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Flag is one human-readable warning. Immutable once generated.
type Flag struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Generate evaluates the rule table against the signals and the legacy
// composite score. Deterministic and order-stable for identical inputs.
func Generate(sec *signals.SecuritySignal, market *signals.MarketSignal, meta signals.TokenMetadata, compositeScore int) []Flag {
	var out []Flag

	if sec != nil {
		if sec.IsHoneypot {
			out = append(out, Flag{
				Severity:    SeverityDanger,
				Title:       "HONEYPOT DETECTED",
				Description: "This token cannot be sold after purchase. DO NOT BUY!",
			})
		}

		buyPct := sec.BuyTax * 100
		sellPct := sec.SellTax * 100
		if buyPct > 10 || sellPct > 10 {
			out = append(out, Flag{
				Severity:    SeverityDanger,
				Title:       "Very High Tax",
				Description: fmt.Sprintf("Buy tax: %.1f%%, Sell tax: %.1f%%. This is likely a scam.", buyPct, sellPct),
			})
		} else if buyPct > 5 || sellPct > 5 {
			out = append(out, Flag{
				Severity:    SeverityWarning,
				Title:       "High Tax",
				Description: fmt.Sprintf("Buy tax: %.1f%%, Sell tax: %.1f%%.", buyPct, sellPct),
			})
		}

		if sec.HasHiddenOwner {
			out = append(out, Flag{
				Severity:    SeverityDanger,
				Title:       "Hidden Owner",
				Description: "Contract ownership is hidden. Very suspicious.",
			})
		}
		if sec.IsMintable {
			out = append(out, Flag{
				Severity:    SeverityWarning,
				Title:       "Mintable",
				Description: "Owner can mint new tokens, potentially diluting value.",
			})
		}
		if sec.IsBlacklistable {
			out = append(out, Flag{
				Severity:    SeverityWarning,
				Title:       "Blacklist Function",
				Description: "Owner can blacklist specific addresses from trading.",
			})
		}
	}

	if market != nil {
		if market.LiquidityUSD < 1_000 {
			out = append(out, Flag{
				Severity:    SeverityDanger,
				Title:       "Very Low Liquidity",
				Description: fmt.Sprintf("Only $%.0f liquidity. High risk of pump & dump.", market.LiquidityUSD),
			})
		} else if market.LiquidityUSD < 10_000 {
			out = append(out, Flag{
				Severity:    SeverityWarning,
				Title:       "Low Liquidity",
				Description: fmt.Sprintf("Only $%.0f liquidity. Proceed with caution.", market.LiquidityUSD),
			})
		}

		if market.Volume24hUSD < 100 {
			out = append(out, Flag{
				Severity:    SeverityWarning,
				Title:       "Minimal Trading Activity",
				Description: "Very low 24h trading volume. Token may be illiquid.",
			})
		}
	} else {
		out = append(out, Flag{
			Severity:    SeverityWarning,
			Title:       "No Market Data",
			Description: "Token not found on any DEX. May be new or unlisted.",
		})
	}

	// Composite rollup last, so it reads as a summary under the specifics.
	if compositeScore >= 70 {
		out = append(out, Flag{
			Severity:    SeverityDanger,
			Title:       "VERY HIGH RISK",
			Description: "Multiple critical red flags. Likely a scam. DO NOT INVEST.",
		})
	} else if compositeScore >= 50 {
		out = append(out, Flag{
			Severity:    SeverityWarning,
			Title:       "High Risk",
			Description: "Several concerning indicators. Research thoroughly before proceeding.",
		})
	}

	return out
}
