package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAllowWhenClosed(t *testing.T) {
	b := New(3, 100*time.Millisecond)
	if !b.Allow("goplus") {
		t.Fatal("closed circuit should allow")
	}
}

func TestTripsAfterThreshold(t *testing.T) {
	b := New(3, 100*time.Millisecond)

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")
	if !b.Allow("goplus") {
		t.Fatal("should still allow before the threshold")
	}

	b.RecordFailure("goplus")
	if b.Allow("goplus") {
		t.Fatal("should be open after 3 failures")
	}
	if b.State("goplus") != StateOpen {
		t.Fatalf("state = %v, want open", b.State("goplus"))
	}
}

func TestOpenToHalfOpenAfterCooldown(t *testing.T) {
	b := New(2, 50*time.Millisecond)

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")
	if b.Allow("goplus") {
		t.Fatal("should be open")
	}

	time.Sleep(60 * time.Millisecond)

	if !b.Allow("goplus") {
		t.Fatal("should admit one probe in half-open")
	}
	if b.State("goplus") != StateHalfOpen {
		t.Fatalf("state = %v, want half_open", b.State("goplus"))
	}
	if b.Allow("goplus") {
		t.Fatal("should reject a second request while probing")
	}
}

func TestHalfOpenSuccessCloses(t *testing.T) {
	b := New(2, 50*time.Millisecond)

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")
	time.Sleep(60 * time.Millisecond)
	b.Allow("goplus") // half-open

	b.RecordSuccess("goplus")
	if b.State("goplus") != StateClosed {
		t.Fatalf("state = %v, want closed after probe success", b.State("goplus"))
	}
	if !b.Allow("goplus") {
		t.Fatal("should allow after recovery")
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	b := New(2, 50*time.Millisecond)

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")
	time.Sleep(60 * time.Millisecond)
	b.Allow("goplus") // half-open

	b.RecordFailure("goplus")
	if b.State("goplus") != StateOpen {
		t.Fatalf("state = %v, want open after probe failure", b.State("goplus"))
	}
}

func TestSuccessResetsCounter(t *testing.T) {
	b := New(3, 100*time.Millisecond)

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")
	b.RecordSuccess("goplus")

	b.RecordFailure("goplus")
	if !b.Allow("goplus") {
		t.Fatal("should still be closed after the counter reset")
	}
}

func TestSourcesAreIndependent(t *testing.T) {
	b := New(2, 100*time.Millisecond)

	b.RecordFailure("dexscreener")
	b.RecordFailure("dexscreener")

	if b.Allow("dexscreener") {
		t.Fatal("dexscreener should be open")
	}
	if !b.Allow("goplus") {
		t.Fatal("goplus should be unaffected")
	}
}

func TestUnknownSourceIsClosed(t *testing.T) {
	b := New(2, 100*time.Millisecond)
	if b.State("alchemy") != StateClosed {
		t.Fatalf("state = %v, want closed for unseen source", b.State("alchemy"))
	}
}

func TestDoRecordsOutcomes(t *testing.T) {
	b := New(2, time.Minute)
	boom := errors.New("boom")

	if err := b.Do("goplus", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Do returned %v, want the fn error", err)
	}
	if err := b.Do("goplus", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Do returned %v, want the fn error", err)
	}

	// Circuit is now open: fn must not run.
	called := false
	err := b.Do("goplus", func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("Do returned %v, want ErrOpen", err)
	}
	if called {
		t.Fatal("fn must not run while the circuit is open")
	}
}

func TestDoSuccessKeepsClosed(t *testing.T) {
	b := New(2, time.Minute)
	for i := 0; i < 10; i++ {
		if err := b.Do("dexscreener", func() error { return nil }); err != nil {
			t.Fatalf("Do returned %v on success", err)
		}
	}
	if b.State("dexscreener") != StateClosed {
		t.Fatalf("state = %v, want closed", b.State("dexscreener"))
	}
}

func TestOnTransitionCallback(t *testing.T) {
	b := New(2, 50*time.Millisecond)

	var mu sync.Mutex
	var transitions []struct{ from, to State }
	b.OnTransition(func(source string, from, to State) {
		mu.Lock()
		transitions = append(transitions, struct{ from, to State }{from, to})
		mu.Unlock()
	})

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")

	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 1 {
		t.Fatalf("got %d transitions, want 1", len(transitions))
	}
	if transitions[0].from != StateClosed || transitions[0].to != StateOpen {
		t.Fatalf("got %v→%v, want closed→open", transitions[0].from, transitions[0].to)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half_open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
