package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	notFound := errors.New("status=404")
	upstream := errors.New("status=503")

	isFailure := func(err error) bool { return errors.Is(err, upstream) }

	if err := b.Execute(func() error { return notFound }, isFailure); !errors.Is(err, notFound) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("client errors must not open the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return upstream }, isFailure); !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after upstream failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, isFailure)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("open breaker should short-circuit, err=%v called=%v", err, called)
	}
}

func TestCircuitBreakerConfig_Build(t *testing.T) {
	if b := (CircuitBreakerConfig{Enabled: false}).Build(); b != nil {
		t.Fatalf("disabled config should not build a breaker")
	}
	if err := (*CircuitBreaker)(nil).Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker should run fn: %v", err)
	}

	b := (CircuitBreakerConfig{Enabled: true}).Build()
	if b == nil {
		t.Fatalf("expected breaker")
	}
	if b.failureThreshold != DefaultCircuitBreakerConfig().FailureThreshold {
		t.Fatalf("expected default threshold, got %d", b.failureThreshold)
	}
}
