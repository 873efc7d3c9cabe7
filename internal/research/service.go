// Package research orchestrates a token assessment: fan out to the three
// signal sources, reconcile identity, run both scoring systems, and
// assemble the report. This is the only place upstream failures are
// translated into absent signals.
package research

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tokenscout/tokenscout/internal/chains"
	"github.com/tokenscout/tokenscout/internal/flags"
	"github.com/tokenscout/tokenscout/internal/logging"
	"github.com/tokenscout/tokenscout/internal/metrics"
	"github.com/tokenscout/tokenscout/internal/realtime"
	"github.com/tokenscout/tokenscout/internal/scoring"
	"github.com/tokenscout/tokenscout/internal/signals"
	"github.com/tokenscout/tokenscout/internal/sources"
	"github.com/tokenscout/tokenscout/internal/syncutil"
	"github.com/tokenscout/tokenscout/internal/traces"
	"github.com/tokenscout/tokenscout/internal/validation"
	"github.com/tokenscout/tokenscout/internal/verdict"
)

// ErrTokenNotFound mirrors the sources sentinel so handlers don't import
// the sources package for error mapping.
var ErrTokenNotFound = sources.ErrTokenNotFound

// hardFlagRules are the engine rules that short-circuit on a near-certain
// scam indicator.
var hardFlagRules = map[string]bool{
	"honeypot":     true,
	"hidden_owner": true,
	"extreme_tax":  true,
}

// Service runs token assessments.
type Service struct {
	clients *sources.Set
	hub     *realtime.Hub
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time

	// locks serializes concurrent assessments of the same token so a burst
	// of identical requests doesn't multiply the upstream fan-out.
	locks *syncutil.ContextShardedMutex
}

// Option configures the service.
type Option func(*Service)

// WithHub wires the realtime feed; assessments are broadcast as they
// complete.
func WithHub(hub *realtime.Hub) Option {
	return func(s *Service) { s.hub = hub }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTimeout bounds each upstream fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService creates the research service.
func NewService(clients *sources.Set, opts ...Option) *Service {
	s := &Service{
		clients: clients,
		logger:  slog.Default(),
		timeout: 5 * time.Second,
		now:     time.Now,
		locks:   syncutil.NewContextShardedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "research")
	return s
}

// Research assesses the token at address on chain. It returns
// ErrTokenNotFound or a context error; every other upstream failure
// degrades the affected signal to absent and the assessment proceeds.
func (s *Service) Research(ctx context.Context, chain chains.Chain, address string) (*Report, error) {
	ctx, span := traces.StartSpan(ctx, "research.token",
		traces.Chain(chain.Slug), traces.TokenAddr(address))
	defer span.End()

	start := s.now()

	if chain.IsNative(address) {
		report := s.nativeReport(chain)
		s.finish(ctx, report, start, nil)
		return report, nil
	}

	unlock, err := s.locks.LockContext(ctx, chain.Slug+":"+address)
	if err != nil {
		return nil, err
	}
	meta, sec, market, err := s.fetchSignals(ctx, chain, address)
	unlock()
	if err != nil {
		return nil, err
	}

	meta = signals.Reconcile(meta, sec)
	meta.Name = validation.SanitizeIdentity(meta.Name)
	meta.Symbol = validation.SanitizeIdentity(meta.Symbol)
	coverage := signals.NewCoverage(meta, sec, market)

	obs := &engineObserver{ctx: ctx, logger: s.logger}
	decision := verdict.NewEngine(verdict.WithObserver(obs)).Decide(sec, market, meta)

	secScore := scoring.SecurityScore(sec)
	mktScore := scoring.MarketScore(market)
	metaScore := scoring.MetadataScore(meta)
	composite, compositeLevel := scoring.Composite(secScore, mktScore, metaScore)

	report := &Report{
		Chain:      chain.Slug,
		Address:    address,
		RiskScore:  decision.RiskScore,
		RiskLevel:  decision.RiskLevel,
		Confidence: decision.Confidence,
		Reasons:    decision.Reasons,
		Flags:      flags.Generate(sec, market, meta, composite),
		Metadata:   meta,
		Analysis: Analysis{
			SecurityScore:  secScore,
			MarketScore:    mktScore,
			MetadataScore:  metaScore,
			CompositeScore: composite,
			CompositeLevel: string(compositeLevel),
			DataCoverage:   coverage,
		},
		GeneratedAt: s.now().UTC(),
	}
	if market != nil {
		report.Market = &MarketView{
			LiquidityUSD: market.LiquidityUSD,
			Volume24hUSD: market.Volume24hUSD,
			PriceUSD:     market.PriceUSD,
			FDVUSD:       market.FDVUSD,
		}
	}

	span.SetAttributes(
		traces.RiskLevel(string(decision.RiskLevel)),
		traces.RiskScore(decision.RiskScore),
		traces.CoverageCount(coverage.Count()),
	)

	metrics.SignalCoverage.Observe(float64(coverage.Count()))
	s.finish(ctx, report, start, obs)
	return report, nil
}

// fetchSignals issues the three upstream lookups concurrently. A failure
// in the security or market fetch degrades that signal to absent; the
// identity fetch is the only one that can abort the assessment, and only
// with ErrTokenNotFound.
func (s *Service) fetchSignals(ctx context.Context, chain chains.Chain, address string) (signals.TokenMetadata, *signals.SecuritySignal, *signals.MarketSignal, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		meta    signals.TokenMetadata
		metaErr error
		sec     *signals.SecuritySignal
		market  *signals.MarketSignal
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		spanCtx, span := traces.StartSpan(fetchCtx, "research.fetch", traces.Source(sources.SourceAlchemy))
		defer span.End()
		fetchStart := time.Now()
		meta, metaErr = s.clients.Identity.TokenMetadata(spanCtx, chain, address)
		recordFetch(sources.SourceAlchemy, fetchStart, metaErr, meta.Complete())
	}()
	go func() {
		defer wg.Done()
		spanCtx, span := traces.StartSpan(fetchCtx, "research.fetch", traces.Source(sources.SourceGoPlus))
		defer span.End()
		fetchStart := time.Now()
		var err error
		sec, err = s.clients.Security.Scan(spanCtx, chain, address)
		recordFetch(sources.SourceGoPlus, fetchStart, err, sec != nil)
		if err != nil {
			sec = nil
		}
	}()
	go func() {
		defer wg.Done()
		spanCtx, span := traces.StartSpan(fetchCtx, "research.fetch", traces.Source(sources.SourceDexScreener))
		defer span.End()
		fetchStart := time.Now()
		var err error
		market, err = s.clients.Market.Lookup(spanCtx, chain, address)
		recordFetch(sources.SourceDexScreener, fetchStart, err, market != nil)
		if err != nil {
			market = nil
		}
	}()
	wg.Wait()

	if metaErr != nil {
		if errors.Is(metaErr, sources.ErrTokenNotFound) {
			return signals.TokenMetadata{}, nil, nil, ErrTokenNotFound
		}
		// Identity source unreachable: degrade, same as the others.
		meta = signals.TokenMetadata{}
	}
	return meta, sec, market, nil
}

// nativeReport builds the fixed assessment for a chain's native asset.
// Native coins have no token contract to scan, so the engine is bypassed.
func (s *Service) nativeReport(chain chains.Chain) *Report {
	native := chain.NativeOverride
	meta := signals.TokenMetadata{
		Name:     native.Name,
		Symbol:   native.Symbol,
		Decimals: native.Decimals,
	}
	return &Report{
		Chain:      chain.Slug,
		Address:    native.Sentinel,
		RiskScore:  5,
		RiskLevel:  verdict.RiskLow,
		Confidence: verdict.ConfidenceHigh,
		Reasons:    []string{native.Name + " is the chain's native asset; contract risk does not apply."},
		Flags:      []flags.Flag{},
		Metadata:   meta,
		Analysis: Analysis{
			CompositeLevel: string(scoring.RiskLow),
			DataCoverage:   signals.Coverage{HasMetadata: true},
		},
		GeneratedAt: s.now().UTC(),
	}
}

// finish records metrics, logs, and feeds the realtime hub.
func (s *Service) finish(ctx context.Context, report *Report, start time.Time, obs *engineObserver) {
	elapsed := s.now().Sub(start)
	metrics.ResearchRequestsTotal.WithLabelValues(report.Chain, string(report.RiskLevel)).Inc()
	metrics.ResearchDuration.WithLabelValues(report.Chain).Observe(elapsed.Seconds())

	logging.L(ctx).Info("token assessed",
		"chain", report.Chain,
		"address", report.Address,
		"risk_level", report.RiskLevel,
		"risk_score", report.RiskScore,
		"confidence", report.Confidence,
		"duration_ms", elapsed.Milliseconds(),
	)

	if s.hub != nil {
		view := report.feedView()
		s.hub.BroadcastAssessment(view)
		if obs != nil && hardFlagRules[obs.rule] {
			s.hub.BroadcastHardFlag(view)
		}
	}
}

// engineObserver bridges the decision engine's instrumentation hook into
// logs and metrics. One per request; the engine itself stays silent.
type engineObserver struct {
	ctx    context.Context
	logger *slog.Logger
	rule   string
}

func (o *engineObserver) ObserveSoftScore(score int, coverage signals.Coverage) {
	o.logger.DebugContext(o.ctx, "soft score computed",
		"score", score, "coverage", coverage.Count())
}

func (o *engineObserver) ObserveRule(rule string) {
	o.rule = rule
	if hardFlagRules[rule] {
		metrics.HardFlagVerdictsTotal.WithLabelValues(rule).Inc()
	}
	o.logger.DebugContext(o.ctx, "verdict rule fired", "rule", rule)
}

func recordFetch(source string, start time.Time, err error, present bool) {
	metrics.UpstreamFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		metrics.UpstreamFetchTotal.WithLabelValues(source, "error").Inc()
	case !present:
		metrics.UpstreamFetchTotal.WithLabelValues(source, "absent").Inc()
	default:
		metrics.UpstreamFetchTotal.WithLabelValues(source, "ok").Inc()
	}
}
