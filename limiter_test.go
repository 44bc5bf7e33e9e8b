package httpjpg

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock lets window tests advance time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, max int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newRateLimiter(max, window, clock.now)
	t.Cleanup(l.Stop)
	return l, clock
}

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
	if got := limiter.Remaining(ip); got != 0 {
		t.Fatalf("Remaining = %d, want 0", got)
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter, clock := newTestLimiter(t, 1, time.Minute)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	clock.advance(61 * time.Second)
	if !limiter.Allow(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestRateLimiterIsPerKey(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRateLimiterCheckRecord(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	ip := "203.0.113.40"

	for i := 0; i < 2; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d: expected allowed", i)
		}
		limiter.Record(ip)
	}
	if limiter.Check(ip) {
		t.Fatalf("expected check to fail after two recorded failures")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	limiter, clock := newTestLimiter(t, 5, time.Minute)
	limiter.Allow("a")
	clock.advance(2 * time.Minute)
	limiter.prune()

	limiter.mu.Lock()
	n := len(limiter.hits)
	limiter.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected expired keys to be pruned, %d left", n)
	}
}

func TestRateLimiterRemainingKeepsHits(t *testing.T) {
	limiter, clock := newTestLimiter(t, 3, time.Minute)
	limiter.Allow("a")
	clock.advance(30 * time.Second)
	limiter.Allow("a")
	limiter.Allow("a")
	clock.advance(31 * time.Second)

	if got := limiter.Remaining("a"); got != 1 {
		t.Fatalf("Remaining = %d, want 1", got)
	}
	if got := limiter.Remaining("a"); got != 1 {
		t.Fatalf("second Remaining = %d, want 1", got)
	}
	if !limiter.Allow("a") {
		t.Fatalf("expected allow with two hits in the window")
	}
	if limiter.Allow("a") {
		t.Fatalf("expected block once the window is full")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	l := NewRateLimiter(1, 10*time.Millisecond)
	l.Stop()
	l.Stop()
}
