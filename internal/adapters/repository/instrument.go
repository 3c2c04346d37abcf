package repository

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"table", "operation"},
	)

	storeOperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by outcome",
		},
		[]string{"table", "operation", "result"},
	)
)

// slowOperationThreshold marks an operation worth a warning.
const slowOperationThreshold = 100 * time.Millisecond

// instrument runs fn behind the store circuit breaker, classifies its error
// and records duration and outcome.
func instrument[T any](ctx context.Context, s *Store, table, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		v, err := fn(ctx)
		return v, classify(err)
	})
	err = classify(err)

	duration := time.Since(start)
	storeOperationDuration.WithLabelValues(table, operation).Observe(duration.Seconds())

	var result T
	if err != nil {
		storeOperationTotal.WithLabelValues(table, operation, errorLabel(err)).Inc()
		if !isHealthyOutcome(err) {
			s.log.Error("store operation failed",
				zap.String("table", table),
				zap.String("operation", operation),
				zap.Duration("duration", duration),
				zap.Error(err))
		}
		return result, err
	}

	storeOperationTotal.WithLabelValues(table, operation, "success").Inc()
	if duration > slowOperationThreshold {
		s.log.Warn("slow store operation",
			zap.String("table", table),
			zap.String("operation", operation),
			zap.Duration("duration", duration))
	}

	if out != nil {
		result = out.(T)
	}
	return result, nil
}

// instrumentVoid wraps an operation that returns only an error.
func instrumentVoid(ctx context.Context, s *Store, table, operation string, fn func(ctx context.Context) error) error {
	_, err := instrument(ctx, s, table, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
