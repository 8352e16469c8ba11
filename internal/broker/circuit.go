package broker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ogostos/optledger/internal/normalize"
)

// CircuitBreakerProvider wraps a SnapshotProvider with circuit breaker
// functionality so a flapping gateway does not stall reconciliation cycles.
type CircuitBreakerProvider struct {
	provider SnapshotProvider
	breaker  *gobreaker.CircuitBreaker
}

// CircuitBreakerSettings configures circuit breaker behavior.
type CircuitBreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// NewCircuitBreakerProvider wraps the provider with sensible defaults.
func NewCircuitBreakerProvider(provider SnapshotProvider) *CircuitBreakerProvider {
	return NewCircuitBreakerProviderWithSettings(provider, CircuitBreakerSettings{
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	})
}

// NewCircuitBreakerProviderWithSettings wraps the provider with custom settings.
func NewCircuitBreakerProviderWithSettings(provider SnapshotProvider, settings CircuitBreakerSettings) *CircuitBreakerProvider {
	gbSettings := gobreaker.Settings{
		Name:        "SnapshotProviderCircuitBreaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
	}
	return &CircuitBreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// execBreaker is a generic helper for circuit breaker wrapper methods.
func execBreaker[T any](breaker *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := breaker.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	v, ok := res.(T)
	if !ok {
		return zero, errors.New("circuit breaker: type assertion failed")
	}
	return v, nil
}

// GetPositions wraps the underlying provider call with the circuit breaker.
func (c *CircuitBreakerProvider) GetPositions(ctx context.Context) ([]normalize.Raw, error) {
	return execBreaker(c.breaker, func() ([]normalize.Raw, error) { return c.provider.GetPositions(ctx) })
}

// GetSummary wraps the underlying provider call with the circuit breaker.
func (c *CircuitBreakerProvider) GetSummary(ctx context.Context) (normalize.Raw, error) {
	return execBreaker(c.breaker, func() (normalize.Raw, error) { return c.provider.GetSummary(ctx) })
}

// GetExecutions wraps the underlying provider call with the circuit breaker.
func (c *CircuitBreakerProvider) GetExecutions(ctx context.Context) ([]normalize.Raw, error) {
	return execBreaker(c.breaker, func() ([]normalize.Raw, error) { return c.provider.GetExecutions(ctx) })
}
