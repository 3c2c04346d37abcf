package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/outbox"
	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/mocks"
)

type fixture struct {
	store     *repository.Store
	notices   *repository.RecordRepository[domain.Notice, *domain.Notice]
	publisher *mocks.MockActivityPublisher
	relay     *outbox.Relay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)

	store, err := repository.Open(context.Background(), "sqlite3", ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notices, err := repository.NewRecordRepository[domain.Notice, *domain.Notice](store, domain.KindNotice)
	require.NoError(t, err)

	publisher := mocks.NewMockActivityPublisher()
	return &fixture{
		store:     store,
		notices:   notices,
		publisher: publisher,
		relay:     outbox.NewRelay(store, ":memory:", publisher, log),
	}
}

func (f *fixture) postNotice(t *testing.T, id string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, f.notices.Insert(context.Background(), &domain.Notice{
		Meta:        domain.Meta{ID: id, OwnerID: "admin_1", CreatedAt: now, UpdatedAt: now},
		Title:       "Library hours",
		Description: "Open until midnight during exams",
		Category:    "academic",
		PostedBy:    "Admin",
	}))
}

func (f *fixture) pending(t *testing.T) int {
	t.Helper()
	n, err := f.relay.Backlog(context.Background())
	require.NoError(t, err)
	return n
}

func TestRelay_Drain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.postNotice(t, "n1")
	f.postNotice(t, "n2")
	require.NoError(t, f.notices.DeleteByID(ctx, "n1"))

	published, err := f.relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, published)
	assert.Zero(t, f.pending(t))

	events := f.publisher.GetPublishedEvents()
	require.Len(t, events, 3)
	types := []string{events[0].EventType, events[1].EventType, events[2].EventType}
	assert.ElementsMatch(t, []string{domain.EventRecordCreated, domain.EventRecordCreated, domain.EventRecordDeleted}, types)
	for _, evt := range events {
		assert.Equal(t, domain.KindNotice, evt.Kind)
	}

	// nothing is published twice
	published, err = f.relay.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestRelay_Drain_PublisherDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.postNotice(t, "n1")

	f.publisher.SetPublishError(errors.New("broker unavailable"))
	published, err := f.relay.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, published)
	assert.Equal(t, 1, f.pending(t))

	f.publisher.SetPublishError(nil)
	published, err = f.relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Zero(t, f.pending(t))
}

func TestRelay_StartPollsUntilCancelled(t *testing.T) {
	f := newFixture(t)
	f.relay.SetPollInterval(10 * time.Millisecond)
	f.postNotice(t, "backlog")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.relay.Start(ctx) }()

	require.Eventually(t, func() bool { return f.publisher.GetPublishCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	f.postNotice(t, "live")
	require.Eventually(t, func() bool { return f.publisher.GetPublishCount() == 2 }, 2*time.Second, 5*time.Millisecond)

	assert.True(t, f.relay.IsHealthy())
	assert.True(t, f.relay.IsReady())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
