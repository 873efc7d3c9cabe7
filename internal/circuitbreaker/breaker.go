// Package circuitbreaker guards the upstream signal sources with a
// per-source breaker (closed → open → half-open). A source that keeps
// failing stops being called for a cooldown window; its signal degrades
// to absent instead of burning the request timeout on a dead API.
package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrOpen is returned by Do when the source's circuit is open.
var ErrOpen = errors.New("circuit open")

// State is the breaker state for one source.
type State int

const (
	StateClosed   State = iota // requests flow through
	StateOpen                  // tripped, requests rejected
	StateHalfOpen              // one probe in flight
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tokenscout",
	Subsystem: "circuitbreaker",
	Name:      "state_transitions_total",
	Help:      "Circuit breaker state transitions by upstream source.",
}, []string{"source", "from_state", "to_state"})

func init() {
	prometheus.MustRegister(stateTransitions)
}

type entry struct {
	state       State
	failures    int
	lastFailure time.Time
}

// Breaker tracks consecutive failures per upstream source and trips open
// at the threshold. After openDuration the circuit half-opens and admits
// a single probe.
type Breaker struct {
	mu           sync.Mutex
	entries      map[string]*entry
	threshold    int
	openDuration time.Duration
	onTransition func(source string, from, to State)
}

// New creates a breaker that opens after threshold consecutive failures
// and cools down for openDuration before probing.
func New(threshold int, openDuration time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if openDuration <= 0 {
		openDuration = 30 * time.Second
	}
	return &Breaker{
		entries:      make(map[string]*entry),
		threshold:    threshold,
		openDuration: openDuration,
	}
}

// OnTransition sets a callback invoked on state changes.
func (b *Breaker) OnTransition(fn func(source string, from, to State)) {
	b.mu.Lock()
	b.onTransition = fn
	b.mu.Unlock()
}

// Do runs fn under the source's circuit. An open circuit returns ErrOpen
// without calling fn; otherwise fn's result is recorded as the
// success/failure outcome and returned unchanged.
func (b *Breaker) Do(source string, fn func() error) error {
	if !b.Allow(source) {
		return fmt.Errorf("%s: %w", source, ErrOpen)
	}
	if err := fn(); err != nil {
		b.RecordFailure(source)
		return err
	}
	b.RecordSuccess(source)
	return nil
}

// Allow reports whether a request to source should proceed. An open
// circuit past its cooldown transitions to half-open and admits the call
// as the probe.
func (b *Breaker) Allow(source string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[source]
	if !ok {
		return true
	}

	switch e.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(e.lastFailure) >= b.openDuration {
			b.transition(e, source, StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		// A probe is already in flight.
		return false
	default:
		return true
	}
}

// RecordSuccess resets the failure count and closes a half-open circuit.
func (b *Breaker) RecordSuccess(source string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[source]
	if !ok {
		return
	}
	if e.state == StateHalfOpen {
		b.transition(e, source, StateClosed)
	}
	e.failures = 0
}

// RecordFailure counts a failure and trips the circuit at the threshold.
// A failed half-open probe reopens immediately.
func (b *Breaker) RecordFailure(source string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[source]
	if !ok {
		e = &entry{state: StateClosed}
		b.entries[source] = e
	}

	e.failures++
	e.lastFailure = time.Now()

	if e.state == StateHalfOpen {
		b.transition(e, source, StateOpen)
		return
	}
	if e.state == StateClosed && e.failures >= b.threshold {
		b.transition(e, source, StateOpen)
	}
}

// State returns the current state for a source, StateClosed when unknown.
func (b *Breaker) State(source string) State {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[source]
	if !ok {
		return StateClosed
	}
	return e.state
}

// caller must hold b.mu
func (b *Breaker) transition(e *entry, source string, to State) {
	from := e.state
	if from == to {
		return
	}
	e.state = to
	stateTransitions.WithLabelValues(source, from.String(), to.String()).Inc()
	if b.onTransition != nil {
		fn := b.onTransition
		go fn(source, from, to)
	}
}
