package scoring

import (
	"testing"

	"github.com/tokenscout/tokenscout/internal/signals"
)

func fdv(v float64) *float64 { return &v }

func TestSecurityScoreMissingSignal(t *testing.T) {
	if got := SecurityScore(nil); got != 30 {
		t.Errorf("SecurityScore(nil) = %d, want 30", got)
	}
}

func TestSecurityScoreCleanToken(t *testing.T) {
	if got := SecurityScore(&signals.SecuritySignal{}); got != 0 {
		t.Errorf("clean token score = %d, want 0", got)
	}
}

func TestSecurityScoreIndividualWeights(t *testing.T) {
	tests := []struct {
		name string
		sec  signals.SecuritySignal
		want int
	}{
		{"honeypot", signals.SecuritySignal{IsHoneypot: true}, 60},
		{"hidden owner", signals.SecuritySignal{HasHiddenOwner: true}, 30},
		{"tax above 10%", signals.SecuritySignal{BuyTax: 0.12}, 25},
		{"tax above 5%", signals.SecuritySignal{SellTax: 0.07}, 15},
		{"tax exactly 5%", signals.SecuritySignal{BuyTax: 0.05}, 0},
		{"mintable", signals.SecuritySignal{IsMintable: true}, 20},
		{"reclaim ownership", signals.SecuritySignal{CanReclaimOwners: true}, 20},
		{"blacklistable", signals.SecuritySignal{IsBlacklistable: true}, 15},
		{"trading cooldown", signals.SecuritySignal{HasTradingCooldown: true}, 10},
		{"proxy", signals.SecuritySignal{IsProxy: true}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecurityScore(&tt.sec); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSecurityScoreTaxTierMutuallyExclusive(t *testing.T) {
	// A 15% tax is in the >10% tier only, never both tiers.
	sec := &signals.SecuritySignal{BuyTax: 0.15, SellTax: 0.15}
	if got := SecurityScore(sec); got != 25 {
		t.Errorf("15%% tax score = %d, want 25 (single tier)", got)
	}
}

func TestSecurityScoreCapsAt100(t *testing.T) {
	// Everything on: 60+30+25+20+20+15+10+5 = 185, capped.
	sec := &signals.SecuritySignal{
		IsHoneypot: true, HasHiddenOwner: true,
		BuyTax: 0.50, SellTax: 0.50,
		IsMintable: true, CanReclaimOwners: true,
		IsBlacklistable: true, HasTradingCooldown: true, IsProxy: true,
	}
	if got := SecurityScore(sec); got != 100 {
		t.Errorf("maxed-out score = %d, want 100", got)
	}
}

// Toggling any single danger flag from false to true never lowers the score.
func TestSecurityScoreMonotonic(t *testing.T) {
	base := signals.SecuritySignal{BuyTax: 0.02, SellTax: 0.02}
	baseScore := SecurityScore(&base)

	toggles := []func(*signals.SecuritySignal){
		func(s *signals.SecuritySignal) { s.IsHoneypot = true },
		func(s *signals.SecuritySignal) { s.HasHiddenOwner = true },
		func(s *signals.SecuritySignal) { s.IsMintable = true },
		func(s *signals.SecuritySignal) { s.CanReclaimOwners = true },
		func(s *signals.SecuritySignal) { s.IsBlacklistable = true },
		func(s *signals.SecuritySignal) { s.HasTradingCooldown = true },
		func(s *signals.SecuritySignal) { s.IsProxy = true },
	}
	for i, toggle := range toggles {
		sec := base
		toggle(&sec)
		if got := SecurityScore(&sec); got < baseScore {
			t.Errorf("toggle %d decreased score: %d < %d", i, got, baseScore)
		}
	}
}

func TestMarketScoreMissingSignal(t *testing.T) {
	if got := MarketScore(nil); got != 50 {
		t.Errorf("MarketScore(nil) = %d, want 50", got)
	}
}

func TestMarketScoreLiquidityTiers(t *testing.T) {
	tests := []struct {
		liquidity float64
		want      int
	}{
		{0, 50 + 15},      // zero liquidity + zero volume
		{500, 40 + 15},    // <1k
		{5_000, 25 + 15},  // <10k
		{25_000, 10 + 15}, // <50k
		{75_000, 5 + 15},  // <100k
		{250_000, 0 + 15}, // >=100k, only the zero-volume penalty left
	}
	for _, tt := range tests {
		m := &signals.MarketSignal{LiquidityUSD: tt.liquidity}
		if got := MarketScore(m); got != tt.want {
			t.Errorf("liquidity %.0f: score = %d, want %d", tt.liquidity, got, tt.want)
		}
	}
}

func TestMarketScoreZeroLiquidityDominates(t *testing.T) {
	// Zero liquidity always contributes the maximum tier regardless of volume.
	for _, vol := range []float64{0, 50, 500, 50_000} {
		m := &signals.MarketSignal{LiquidityUSD: 0, Volume24hUSD: vol}
		got := MarketScore(m)
		if got < 50 {
			t.Errorf("volume %.0f: score = %d, want >= 50 (zero-liquidity tier)", vol, got)
		}
	}
}

func TestMarketScoreVolumeTiers(t *testing.T) {
	tests := []struct {
		volume float64
		want   int
	}{
		{0, 15},
		{50, 10},
		{500, 5},
		{5_000, 0},
	}
	for _, tt := range tests {
		// Healthy liquidity so only the volume tier contributes. Keep volume
		// below 2x liquidity so the ratio penalty stays out of the picture.
		m := &signals.MarketSignal{LiquidityUSD: 500_000, Volume24hUSD: tt.volume}
		if got := MarketScore(m); got != tt.want {
			t.Errorf("volume %.0f: score = %d, want %d", tt.volume, got, tt.want)
		}
	}
}

func TestMarketScoreFDVTiers(t *testing.T) {
	tests := []struct {
		name string
		fdv  *float64
		want int
	}{
		{"unknown fdv", nil, 0},
		{"zero fdv ignored", fdv(0), 0},
		{"micro cap", fdv(150_000), 35},
		{"under 1M", fdv(800_000), 25},
		{"under 5M", fdv(3_000_000), 15},
		{"under 20M", fdv(12_000_000), 8},
		{"large cap", fdv(100_000_000), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &signals.MarketSignal{LiquidityUSD: 500_000, Volume24hUSD: 10_000, FDVUSD: tt.fdv}
			if got := MarketScore(m); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMarketScoreVolumeLiquidityRatio(t *testing.T) {
	tests := []struct {
		name      string
		liquidity float64
		volume    float64
		want      int
	}{
		{"ratio above 5", 100_000, 600_000, 10},
		{"ratio above 2", 100_000, 300_000, 5},
		{"ratio below 2", 100_000, 150_000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &signals.MarketSignal{LiquidityUSD: tt.liquidity, Volume24hUSD: tt.volume}
			if got := MarketScore(m); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMarketScoreCapTriggersExactly(t *testing.T) {
	// liquidity 0 (+50) + volume 0 (+15) + fdv 100k (+35) = 100 on the nose.
	m := &signals.MarketSignal{LiquidityUSD: 0, Volume24hUSD: 0, FDVUSD: fdv(100_000)}
	if got := MarketScore(m); got != 100 {
		t.Errorf("score = %d, want exactly 100", got)
	}
}

func TestMetadataScore(t *testing.T) {
	tests := []struct {
		name string
		meta signals.TokenMetadata
		want int
	}{
		{"complete", signals.TokenMetadata{Name: "Token", Symbol: "TKN"}, 0},
		{"missing name", signals.TokenMetadata{Symbol: "TKN"}, 10},
		{"missing symbol", signals.TokenMetadata{Name: "Token"}, 10},
		{"missing both", signals.TokenMetadata{}, 20},
		{"whitespace name", signals.TokenMetadata{Name: "  \t", Symbol: "TKN"}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MetadataScore(tt.meta); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name      string
		sec       int
		market    int
		meta      int
		wantScore int
		wantLevel RiskLevel
	}{
		{"all zero", 0, 0, 0, 0, RiskLow},
		{"weighted blend", 100, 100, 100, 100, RiskHigh},
		{"security heavy", 100, 0, 0, 60, RiskMedium},
		{"boundary low", 25, 25, 25, 25, RiskLow},
		{"boundary medium", 26, 26, 26, 26, RiskMedium},
		{"missing everything floors", 30, 50, 20, 35, RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := Composite(tt.sec, tt.market, tt.meta)
			if score != tt.wantScore || level != tt.wantLevel {
				t.Errorf("Composite = (%d, %s), want (%d, %s)", score, level, tt.wantScore, tt.wantLevel)
			}
		})
	}
}

func TestScoresAlwaysInRange(t *testing.T) {
	secs := []*signals.SecuritySignal{
		nil,
		{},
		{IsHoneypot: true, HasHiddenOwner: true, BuyTax: 9.9, IsMintable: true,
			CanReclaimOwners: true, IsBlacklistable: true, HasTradingCooldown: true, IsProxy: true},
	}
	markets := []*signals.MarketSignal{
		nil,
		{},
		{LiquidityUSD: 0, Volume24hUSD: 0, FDVUSD: fdv(1)},
		{LiquidityUSD: 1e12, Volume24hUSD: 1e13},
	}
	metas := []signals.TokenMetadata{{}, {Name: "A", Symbol: "B"}}

	for _, sec := range secs {
		for _, market := range markets {
			for _, meta := range metas {
				s, m, d := SecurityScore(sec), MarketScore(market), MetadataScore(meta)
				for _, v := range []int{s, m, d} {
					if v < 0 || v > 100 {
						t.Fatalf("sub-score out of range: %d", v)
					}
				}
				c, level := Composite(s, m, d)
				if c < 0 || c > 100 {
					t.Fatalf("composite out of range: %d", c)
				}
				if level != RiskLow && level != RiskMedium && level != RiskHigh {
					t.Fatalf("bad level: %s", level)
				}
			}
		}
	}
}
