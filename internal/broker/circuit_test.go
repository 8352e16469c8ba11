package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogostos/optledger/internal/normalize"
)

type countingProvider struct {
	calls int
	fail  bool
}

func (p *countingProvider) GetPositions(context.Context) ([]normalize.Raw, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("gateway down")
	}
	return []normalize.Raw{{"symbol": "SPY240315C00290000"}}, nil
}

func (p *countingProvider) GetSummary(context.Context) (normalize.Raw, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("gateway down")
	}
	return normalize.Raw{"cash": 100.0}, nil
}

func (p *countingProvider) GetExecutions(context.Context) ([]normalize.Raw, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("gateway down")
	}
	return nil, nil
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	inner := &countingProvider{}
	cb := NewCircuitBreakerProvider(inner)

	rows, err := cb.GetPositions(context.Background())
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, expected 1", len(rows))
	}

	blob, err := cb.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if _, ok := blob["cash"]; !ok {
		t.Errorf("summary blob = %v, expected cash key", blob)
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	inner := &countingProvider{fail: true}
	cb := NewCircuitBreakerProviderWithSettings(inner, CircuitBreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	})

	for i := 0; i < 3; i++ {
		if _, err := cb.GetPositions(context.Background()); err == nil {
			t.Fatalf("call %d: expected a failure", i)
		}
	}
	callsBeforeOpen := inner.calls

	// The breaker is now open: calls short-circuit without reaching the
	// underlying provider.
	if _, err := cb.GetPositions(context.Background()); err == nil {
		t.Fatal("expected the open breaker to reject the call")
	}
	if inner.calls != callsBeforeOpen {
		t.Errorf("inner calls = %d, expected no new calls past %d", inner.calls, callsBeforeOpen)
	}
}
