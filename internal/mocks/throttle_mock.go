package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// MockLoginThrottle implements ports.LoginThrottle with a fixed failure
// budget per key.
type MockLoginThrottle struct {
	mu sync.Mutex

	MaxFailures int
	failures    map[string]int

	ResetCalls  []string
	AllowError  error
	RecordError error
	ResetError  error
}

var _ ports.LoginThrottle = (*MockLoginThrottle)(nil)

func NewMockLoginThrottle(maxFailures int) *MockLoginThrottle {
	return &MockLoginThrottle{MaxFailures: maxFailures, failures: make(map[string]int)}
}

func (m *MockLoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AllowError != nil {
		return false, m.AllowError
	}
	return m.failures[key] < m.MaxFailures, nil
}

func (m *MockLoginThrottle) RecordFailure(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordError != nil {
		return m.RecordError
	}
	m.failures[key]++
	return nil
}

func (m *MockLoginThrottle) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls = append(m.ResetCalls, key)
	if m.ResetError != nil {
		return m.ResetError
	}
	delete(m.failures, key)
	return nil
}

func (m *MockLoginThrottle) Failures(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[key]
}
