package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func passing() error { return nil }

func testConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             50 * time.Millisecond,
		HalfOpenMaxRequests: 2,
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cb := New(testConfig())
	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %v, want open", got)
	}
	if err := cb.Execute(passing); !errors.Is(err, ErrOpen) {
		t.Fatalf("open breaker must reject: err = %v", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	cb := New(testConfig())
	cb.Execute(failing)
	cb.Execute(failing)
	cb.Execute(passing)
	cb.Execute(failing)
	cb.Execute(failing)
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %v, want closed (failures never consecutive enough)", got)
	}
}

func TestHalfOpenProbeAndClose(t *testing.T) {
	t.Parallel()

	cb := New(testConfig())
	for i := 0; i < 3; i++ {
		cb.Execute(failing)
	}
	time.Sleep(60 * time.Millisecond)

	if got := cb.GetState(); got != StateHalfOpen {
		t.Fatalf("state = %v, want half-open after timeout", got)
	}
	if err := cb.Execute(passing); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	if err := cb.Execute(passing); err != nil {
		t.Fatalf("second probe rejected: %v", err)
	}
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %v, want closed after success threshold", got)
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	cb := New(testConfig())
	for i := 0; i < 3; i++ {
		cb.Execute(failing)
	}
	time.Sleep(60 * time.Millisecond)

	cb.Execute(failing)
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %v, want open after failed probe", got)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	cb := New(testConfig())
	for i := 0; i < 3; i++ {
		cb.Execute(failing)
	}
	cb.Reset()
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %v, want closed after reset", got)
	}
	if err := cb.Execute(passing); err != nil {
		t.Fatalf("call after reset: %v", err)
	}
}
