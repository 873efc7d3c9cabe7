package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tokenscout/tokenscout/internal/circuitbreaker"
)

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()
	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Fatal("empty registry should be healthy")
	}
	if len(statuses) != 0 {
		t.Fatalf("expected 0 statuses, got %d", len(statuses))
	}
}

func TestRegistryAllHealthy(t *testing.T) {
	r := NewRegistry()
	r.Register("goplus", func(_ context.Context) Status {
		return Status{Name: "goplus", Healthy: true}
	})
	r.Register("dexscreener", func(_ context.Context) Status {
		return Status{Name: "dexscreener", Healthy: true, Detail: "ok"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Fatal("all-healthy registry should report healthy")
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
}

func TestRegistryOneUnhealthy(t *testing.T) {
	r := NewRegistry()
	r.Register("goplus", func(_ context.Context) Status {
		return Status{Name: "goplus", Healthy: true}
	})
	r.Register("dexscreener", func(_ context.Context) Status {
		return Status{Name: "dexscreener", Healthy: false, Detail: "connection refused"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	if healthy {
		t.Fatal("registry with unhealthy checker should report unhealthy")
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[1].Detail != "connection refused" {
		t.Fatalf("expected detail 'connection refused', got %q", statuses[1].Detail)
	}
}

func TestUpstreamChecker(t *testing.T) {
	b := circuitbreaker.New(2, time.Minute)
	check := UpstreamChecker(b, "goplus")

	status := check(context.Background())
	if !status.Healthy {
		t.Fatal("closed circuit should be healthy")
	}
	if status.Name != "upstream:goplus" {
		t.Fatalf("unexpected status name %q", status.Name)
	}

	b.RecordFailure("goplus")
	b.RecordFailure("goplus")

	status = check(context.Background())
	if status.Healthy {
		t.Fatal("open circuit should be unhealthy")
	}
	if status.Detail != "circuit open" {
		t.Fatalf("unexpected detail %q", status.Detail)
	}
}

func TestRegistryConcurrentRegisterAndCheck(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	// Register concurrently
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Register("checker", func(_ context.Context) Status {
				return Status{Name: "checker", Healthy: true}
			})
		}(i)
	}

	// Check concurrently
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.CheckAll(context.Background())
		}()
	}

	wg.Wait()
}
