package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	BreakerStore        = "Store"
	BreakerRedis        = "Redis-Throttle"
	BreakerRabbitMQ     = "RabbitMQ-Publisher"
	breakerFailureLimit = 3
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// isSuccessful decides which errors count as healthy outcomes of the
// dependency; nil means only a nil error does.
func NewCircuitBreaker(name string, isSuccessful func(error) bool, log *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// aligned with the 5s readiness probe timeout
	switch name {
	case BreakerRedis:
		timeout = 5 * time.Second
	case BreakerStore:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureLimit
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Error("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
}
