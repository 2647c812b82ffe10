package resilience

import (
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThresholdAndRecovers(t *testing.T) {
	t.Parallel()

	current := time.Unix(0, 0)
	breaker := NewCircuitBreaker(2, 10*time.Second, 1)
	breaker.now = func() time.Time { return current }

	if err := breaker.Allow(); err != nil {
		t.Fatalf("closed breaker must allow: %v", err)
	}
	breaker.RecordFailure()
	breaker.RecordFailure()

	if err := breaker.Allow(); err == nil {
		t.Fatalf("expected open breaker to reject")
	}

	current = current.Add(11 * time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half-open breaker must allow probe: %v", err)
	}
	breaker.RecordSuccess()

	if got := breaker.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	current := time.Unix(0, 0)
	breaker := NewCircuitBreaker(1, 5*time.Second, 1)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	current = current.Add(6 * time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half-open breaker must allow probe: %v", err)
	}
	breaker.RecordFailure()

	if got := breaker.State(); got != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", got)
	}
}
