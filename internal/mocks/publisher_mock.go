package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// MockActivityPublisher implements ports.ActivityPublisher so the outbox
// relay can be tested without RabbitMQ.
type MockActivityPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []domain.ActivityEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.ActivityPublisher = (*MockActivityPublisher)(nil)

func NewMockActivityPublisher() *MockActivityPublisher {
	return &MockActivityPublisher{}
}

func (m *MockActivityPublisher) PublishActivity(ctx context.Context, evt domain.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of every published event.
func (m *MockActivityPublisher) GetPublishedEvents() []domain.ActivityEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.ActivityEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockActivityPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

// SetPublishError changes the injected error while the relay is running.
func (m *MockActivityPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishError = err
}
