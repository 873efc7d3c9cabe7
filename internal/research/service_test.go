package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/signals"
	"github.com/tokenscout/tokenscout/internal/sources"
	"github.com/tokenscout/tokenscout/internal/verdict"
)

const testAddr = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"

type fakeIdentity struct {
	meta signals.TokenMetadata
	err  error
}

func (f *fakeIdentity) TokenMetadata(ctx context.Context, chain chains.Chain, address string) (signals.TokenMetadata, error) {
	return f.meta, f.err
}

type fakeSecurity struct {
	sig *signals.SecuritySignal
	err error
}

func (f *fakeSecurity) Scan(ctx context.Context, chain chains.Chain, address string) (*signals.SecuritySignal, error) {
	return f.sig, f.err
}

type fakeMarket struct {
	sig *signals.MarketSignal
	err error
}

func (f *fakeMarket) Lookup(ctx context.Context, chain chains.Chain, address string) (*signals.MarketSignal, error) {
	return f.sig, f.err
}

func fakeSet(meta signals.TokenMetadata, sec *signals.SecuritySignal, market *signals.MarketSignal) *sources.Set {
	return &sources.Set{
		Identity: &fakeIdentity{meta: meta},
		Security: &fakeSecurity{sig: sec},
		Market:   &fakeMarket{sig: market},
	}
}

func mustChain(t *testing.T, slug string) chains.Chain {
	t.Helper()
	c, ok := chains.Get(slug)
	require.True(t, ok)
	return c
}

func TestResearch_CleanTokenFullCoverage(t *testing.T) {
	set := fakeSet(
		signals.TokenMetadata{Name: "Good Token", Symbol: "GOOD", Decimals: 18},
		&signals.SecuritySignal{},
		&signals.MarketSignal{LiquidityUSD: 500_000, Volume24hUSD: 50_000},
	)
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	assert.Equal(t, verdict.RiskLow, report.RiskLevel)
	assert.Equal(t, verdict.ConfidenceHigh, report.Confidence)
	assert.Equal(t, 15, report.RiskScore)
	assert.NotEmpty(t, report.Reasons)
	assert.Equal(t, "base", report.Chain)
	assert.Equal(t, testAddr, report.Address)
	require.NotNil(t, report.Market)
	assert.Equal(t, 500_000.0, report.Market.LiquidityUSD)
	assert.True(t, report.Analysis.DataCoverage.HasSecurity)
	assert.Equal(t, 3, report.Analysis.DataCoverage.Count())
}

func TestResearch_HoneypotIsHighRisk(t *testing.T) {
	set := fakeSet(
		signals.TokenMetadata{Name: "Trap", Symbol: "TRAP"},
		&signals.SecuritySignal{IsHoneypot: true},
		&signals.MarketSignal{LiquidityUSD: 50_000, Volume24hUSD: 1_000},
	)
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	assert.Equal(t, verdict.RiskHigh, report.RiskLevel)
	assert.Equal(t, 95, report.RiskScore)

	var hasHoneypotFlag bool
	for _, f := range report.Flags {
		if f.Title == "HONEYPOT DETECTED" {
			hasHoneypotFlag = true
			assert.Equal(t, "danger", string(f.Severity))
		}
	}
	assert.True(t, hasHoneypotFlag, "flags: %v", report.Flags)
}

func TestResearch_TokenNotFound(t *testing.T) {
	set := fakeSet(signals.TokenMetadata{}, nil, nil)
	set.Identity = &fakeIdentity{err: sources.ErrTokenNotFound}
	svc := NewService(set)

	_, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResearch_UpstreamFailuresDegradeToUnknown(t *testing.T) {
	// Every source down: the assessment still completes, conservatively.
	boom := errors.New("upstream down")
	set := &sources.Set{
		Identity: &fakeIdentity{err: boom},
		Security: &fakeSecurity{err: boom},
		Market:   &fakeMarket{err: boom},
	}
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	assert.Equal(t, verdict.RiskUnknown, report.RiskLevel)
	assert.Equal(t, verdict.ConfidenceLow, report.Confidence)
	assert.Equal(t, 0, report.RiskScore)
	assert.NotEmpty(t, report.Reasons)
	assert.Equal(t, 0, report.Analysis.DataCoverage.Count())
}

func TestResearch_SecurityFailureLowersConfidence(t *testing.T) {
	set := &sources.Set{
		Identity: &fakeIdentity{meta: signals.TokenMetadata{Name: "Tok", Symbol: "TOK"}},
		Security: &fakeSecurity{err: errors.New("scanner timeout")},
		Market:   &fakeMarket{sig: &signals.MarketSignal{LiquidityUSD: 200_000, Volume24hUSD: 5_000}},
	}
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	assert.Equal(t, verdict.ConfidenceMedium, report.Confidence)
	assert.Equal(t, verdict.RiskUnknown, report.RiskLevel)
	assert.False(t, report.Analysis.DataCoverage.HasSecurity)
}

func TestResearch_IdentityFilledFromSecurityScan(t *testing.T) {
	set := fakeSet(
		signals.TokenMetadata{},
		&signals.SecuritySignal{TokenName: "Scanned Name", TokenSymbol: "SCN", TokenDecimals: "9"},
		&signals.MarketSignal{LiquidityUSD: 100_000, Volume24hUSD: 2_000},
	)
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	assert.Equal(t, "Scanned Name", report.Metadata.Name)
	assert.Equal(t, "SCN", report.Metadata.Symbol)
	assert.Equal(t, 9, report.Metadata.Decimals)
	assert.True(t, report.Analysis.DataCoverage.HasMetadata)
}

func TestResearch_NativeAssetBypassesEngine(t *testing.T) {
	// The clients must never be called for the native sentinel.
	boom := errors.New("should not be called")
	set := &sources.Set{
		Identity: &fakeIdentity{err: boom},
		Security: &fakeSecurity{err: boom},
		Market:   &fakeMarket{err: boom},
	}
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "tron"), "0")
	require.NoError(t, err)

	assert.Equal(t, verdict.RiskLow, report.RiskLevel)
	assert.Equal(t, verdict.ConfidenceHigh, report.Confidence)
	assert.Equal(t, "TRX", report.Metadata.Symbol)
	assert.NotEmpty(t, report.Reasons)
	assert.Empty(t, report.Flags)
}

func TestResearch_CompositeReportedAlongsideVerdict(t *testing.T) {
	// Zero liquidity, zero volume, honeypot off: the decision engine and
	// the composite scorer assess independently.
	set := fakeSet(
		signals.TokenMetadata{Name: "Dust", Symbol: "DST"},
		&signals.SecuritySignal{IsMintable: true},
		&signals.MarketSignal{LiquidityUSD: 0, Volume24hUSD: 0},
	)
	svc := NewService(set)

	report, err := svc.Research(context.Background(), mustChain(t, "base"), testAddr)
	require.NoError(t, err)

	// Soft score: mintable 10 + no liquidity 25 + no volume 10 = 45 → medium.
	assert.Equal(t, verdict.RiskMedium, report.RiskLevel)
	assert.Equal(t, 55, report.RiskScore)

	// Composite: security 20, market 65 capped tiers, metadata 0.
	assert.Equal(t, 20, report.Analysis.SecurityScore)
	assert.Equal(t, 65, report.Analysis.MarketScore)
	assert.Equal(t, 0, report.Analysis.MetadataScore)
	assert.NotZero(t, report.Analysis.CompositeScore)
	assert.NotEmpty(t, report.Analysis.CompositeLevel)
}
