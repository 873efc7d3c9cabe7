// Package verdict implements the conservative decision engine: the ordered
// policy chain that turns the three token signals into a risk level, a
// confidence level, and human-readable reasons.
//
// This is a decision tree, not a blended score. Hard red flags (honeypot,
// hidden owner, extreme tax) short-circuit everything else; the remaining
// soft indicators accumulate points on the engine's own scale — which is
// deliberately NOT the package scoring scale, see DESIGN.md — and
// confidence comes purely from data coverage. Two rules anchor the whole
// design: silence from every source means "unknown", never "safe", and
// "low risk" is unreachable without all three sources corroborating.
package verdict

import (
	"github.com/tokenscout/tokenscout/internal/signals"
)

// RiskLevel is the engine's verdict bucket.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// Confidence measures how much of the expected data coverage was actually
// obtained — it says nothing about what the data contained.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Decision is the engine's output. RiskScore is representative of the
// level, not a continuous measurement; Reasons is never empty.
type Decision struct {
	RiskLevel  RiskLevel  `json:"riskLevel"`
	Confidence Confidence `json:"confidence"`
	RiskScore  int        `json:"riskScore"`
	Reasons    []string   `json:"reasons"`
}

// Observer receives intermediate engine state for instrumentation. The
// scoring path itself never logs; callers that want visibility inject one.
type Observer interface {
	ObserveSoftScore(score int, coverage signals.Coverage)
	ObserveRule(rule string)
}

// Soft-scoring weights, local to the decision engine. Smaller-scale than
// the composite scorer weights on purpose: both systems are preserved
// as-is because merging them changes observable verdicts.
const (
	pointsHighTax     = 30
	pointsModerateTax = 15
	pointsReclaim     = 15
	pointsMintable    = 10
	pointsBlacklist   = 10
	pointsCooldown    = 5

	pointsNoLiquidity   = 25
	pointsDustLiquidity = 20
	pointsThinLiquidity = 10
	pointsNoVolume      = 10
	pointsLowVolume     = 5
)

// Hard-flag thresholds.
const extremeTaxFraction = 0.20

// Engine evaluates the conservative policy chain. Zero value is usable;
// configure with options.
type Engine struct {
	observer Observer
}

// Option configures the engine.
type Option func(*Engine)

// WithObserver injects an instrumentation sink.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates a decision engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide runs the policy chain. The first matching check wins.
// It always produces a Decision — nothing in here is fatal, even total
// data absence.
func (e *Engine) Decide(sec *signals.SecuritySignal, market *signals.MarketSignal, meta signals.TokenMetadata) Decision {
	coverage := signals.NewCoverage(meta, sec, market)

	// Rule 1: nothing corroborates anything. An unindexed, unscanned token
	// is usually just new or obscure — that is not the same as safe.
	if !coverage.HasSecurity && !coverage.HasMarket {
		e.observeRule("no_data")
		return Decision{
			RiskLevel:  RiskUnknown,
			Confidence: ConfidenceLow,
			RiskScore:  0,
			Reasons: []string{
				"Token was not detected by the security scanner or any DEX indexer; unable to assess.",
			},
		}
	}

	// Rules 2-4: hard red flags. Near-certain scam indicators bypass all
	// soft scoring.
	if sec != nil && sec.IsHoneypot {
		e.observeRule("honeypot")
		return Decision{
			RiskLevel:  RiskHigh,
			Confidence: ConfidenceHigh,
			RiskScore:  95,
			Reasons:    []string{"Honeypot detected: the contract blocks selling after purchase."},
		}
	}
	if sec != nil && sec.HasHiddenOwner {
		e.observeRule("hidden_owner")
		return Decision{
			RiskLevel:  RiskHigh,
			Confidence: ConfidenceHigh,
			RiskScore:  85,
			Reasons:    []string{"Contract ownership is hidden from inspection."},
		}
	}
	if sec != nil && sec.MaxTax() >= extremeTaxFraction {
		e.observeRule("extreme_tax")
		return Decision{
			RiskLevel:  RiskHigh,
			Confidence: ConfidenceHigh,
			RiskScore:  90,
			Reasons:    []string{"Transfer tax of 20% or more; effectively confiscatory."},
		}
	}

	// Rule 5: soft scoring.
	score, reasons := e.softScore(sec, market)
	e.observeSoft(score, coverage)

	// Rule 6: confidence from coverage alone.
	confidence := confidenceFromCoverage(coverage)

	// Rule 7: final classification, checked in order. Low confidence can
	// never resolve to "low" or "high" — sparse data degrades to unknown
	// rather than reassuring anyone.
	switch {
	case confidence == ConfidenceHigh && score <= 10:
		e.observeRule("corroborated_low")
		if len(reasons) == 0 {
			reasons = append(reasons, "No major red flags detected across security, market, and identity data.")
		}
		return Decision{RiskLevel: RiskLow, Confidence: confidence, RiskScore: 15, Reasons: reasons}

	case score >= 60:
		e.observeRule("soft_high")
		if len(reasons) == 0 {
			reasons = append(reasons, "Multiple risk indicators detected.")
		}
		return Decision{RiskLevel: RiskHigh, Confidence: confidence, RiskScore: 75, Reasons: reasons}

	case confidence == ConfidenceLow:
		e.observeRule("insufficient_data")
		reasons = append(reasons, "Insufficient data to assess this token; no score shown.")
		return Decision{RiskLevel: RiskUnknown, Confidence: confidence, RiskScore: 0, Reasons: reasons}

	case score <= 20 && confidence == ConfidenceMedium:
		e.observeRule("limited_data")
		reasons = append(reasons, "Limited data available, but no major red flags detected.")
		return Decision{RiskLevel: RiskUnknown, Confidence: confidence, RiskScore: 40, Reasons: reasons}

	default:
		e.observeRule("default_medium")
		if len(reasons) == 0 {
			reasons = append(reasons, "Some risk indicators detected.")
		}
		return Decision{RiskLevel: RiskMedium, Confidence: confidence, RiskScore: 55, Reasons: reasons}
	}
}

// softScore accumulates the engine-local point total and the reason for
// each contribution. Tax tiers and the market tiers are single-tier;
// everything else is independent.
func (e *Engine) softScore(sec *signals.SecuritySignal, market *signals.MarketSignal) (int, []string) {
	score := 0
	var reasons []string

	if sec != nil {
		switch tax := sec.MaxTax(); {
		case tax >= 0.10:
			score += pointsHighTax
			reasons = append(reasons, "High transfer tax (10% or more).")
		case tax >= 0.05:
			score += pointsModerateTax
			reasons = append(reasons, "Moderate transfer tax (5% or more).")
		}
		if sec.CanReclaimOwners {
			score += pointsReclaim
			reasons = append(reasons, "Owner can reclaim contract ownership.")
		}
		if sec.IsMintable {
			score += pointsMintable
			reasons = append(reasons, "Token supply is mintable by the owner.")
		}
		if sec.IsBlacklistable {
			score += pointsBlacklist
			reasons = append(reasons, "Owner can blacklist addresses from trading.")
		}
		if sec.HasTradingCooldown {
			score += pointsCooldown
			reasons = append(reasons, "Trading cooldown restricts transfers.")
		}
	}

	if market != nil {
		switch liq := market.LiquidityUSD; {
		case liq == 0:
			score += pointsNoLiquidity
			reasons = append(reasons, "No DEX liquidity.")
		case liq < 1_000:
			score += pointsDustLiquidity
			reasons = append(reasons, "DEX liquidity below $1,000.")
		case liq < 10_000:
			score += pointsThinLiquidity
			reasons = append(reasons, "DEX liquidity below $10,000.")
		}
		switch vol := market.Volume24hUSD; {
		case vol == 0:
			score += pointsNoVolume
			reasons = append(reasons, "No trading volume in the last 24h.")
		case vol < 100:
			score += pointsLowVolume
			reasons = append(reasons, "Under $100 of trading volume in the last 24h.")
		}
	}

	return clamp(score), reasons
}

func confidenceFromCoverage(c signals.Coverage) Confidence {
	switch c.Count() {
	case 3:
		return ConfidenceHigh
	case 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func clamp(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func (e *Engine) observeRule(rule string) {
	if e.observer != nil {
		e.observer.ObserveRule(rule)
	}
}

func (e *Engine) observeSoft(score int, coverage signals.Coverage) {
	if e.observer != nil {
		e.observer.ObserveSoftScore(score, coverage)
	}
}
