package research

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tokenscout/tokenscout/internal/flags"
	"github.com/tokenscout/tokenscout/internal/signals"
	"github.com/tokenscout/tokenscout/internal/verdict"
)

// Report is the full assessment the API serializes. RiskScore, RiskLevel,
// Confidence, and Reasons come from the decision engine; Analysis carries
// the weighted composite breakdown as a supplementary view. The two
// scoring systems are reported side by side and never blended.
type Report struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`

	RiskScore  int                `json:"riskScore"`
	RiskLevel  verdict.RiskLevel  `json:"riskLevel"`
	Confidence verdict.Confidence `json:"confidence"`
	Reasons    []string           `json:"reasons"`
	Flags      []flags.Flag       `json:"flags"`

	Metadata signals.TokenMetadata `json:"metadata"`
	Market   *MarketView           `json:"market,omitempty"`

	Analysis Analysis `json:"analysis"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Analysis is the composite-score breakdown reported alongside the
// decision engine's verdict.
type Analysis struct {
	SecurityScore  int              `json:"securityScore"`
	MarketScore    int              `json:"marketScore"`
	MetadataScore  int              `json:"metadataScore"`
	CompositeScore int              `json:"compositeScore"`
	CompositeLevel string           `json:"compositeLevel"`
	DataCoverage   signals.Coverage `json:"dataCoverage"`
}

// MarketView is the market snapshot echoed back to the caller when DEX
// data was available.
type MarketView struct {
	LiquidityUSD float64          `json:"liquidityUsd"`
	Volume24hUSD float64          `json:"volume24hUsd"`
	PriceUSD     *decimal.Decimal `json:"priceUsd,omitempty"`
	FDVUSD       *float64         `json:"fdvUsd,omitempty"`
}

// feedView flattens a report into the map the realtime hub filters on.
func (r *Report) feedView() map[string]interface{} {
	return map[string]interface{}{
		"chain":      r.Chain,
		"address":    r.Address,
		"riskLevel":  string(r.RiskLevel),
		"riskScore":  float64(r.RiskScore),
		"confidence": string(r.Confidence),
		"name":       r.Metadata.Name,
		"symbol":     r.Metadata.Symbol,
	}
}
