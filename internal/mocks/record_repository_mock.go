// Package mocks provides in-memory implementations of the port interfaces so
// services and handlers can be tested without a database or broker.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// MockRecordRepository implements ports.RecordRepository for any record kind.
type MockRecordRepository[T any, P domain.Entity[T]] struct {
	mu sync.RWMutex

	records map[string]T

	// Call tracking
	InsertCalls []T
	DeleteCalls []string

	// Error injection. InsertErrors is consumed one entry per Insert call;
	// a nil entry lets that call succeed.
	InsertErrors []error
	ListError    error
	GetError     error
	DeleteError  error
}

var _ ports.RecordRepository[domain.Complaint] = (*MockRecordRepository[domain.Complaint, *domain.Complaint])(nil)

func NewMockRecordRepository[T any, P domain.Entity[T]]() *MockRecordRepository[T, P] {
	return &MockRecordRepository[T, P]{records: make(map[string]T)}
}

// Seed stores rec directly, bypassing call tracking.
func (m *MockRecordRepository[T, P]) Seed(rec T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[P(&rec).Metadata().ID] = rec
}

func (m *MockRecordRepository[T, P]) Insert(ctx context.Context, rec *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, *rec)

	if len(m.InsertErrors) > 0 {
		err := m.InsertErrors[0]
		m.InsertErrors = m.InsertErrors[1:]
		if err != nil {
			return err
		}
	}

	id := P(rec).Metadata().ID
	if _, exists := m.records[id]; exists {
		return domain.ErrDuplicateKey
	}
	m.records[id] = *rec
	return nil
}

func (m *MockRecordRepository[T, P]) ListNewestFirst(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	out := make([]T, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return P(&out[i]).Metadata().CreatedAt.After(P(&out[j]).Metadata().CreatedAt)
	})
	return out, nil
}

func (m *MockRecordRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *MockRecordRepository[T, P]) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Len returns how many records are stored.
func (m *MockRecordRepository[T, P]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
