package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute

	eventProcessTimeout = 30 * time.Second
	batchProcessTimeout = 60 * time.Second

	// listenPollInterval is the safety net behind NOTIFY
	listenPollInterval  = 90 * time.Second
	DefaultPollInterval = 5 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// Relay publishes outbox activity events to the broker. On postgres it wakes
// on NOTIFY from the writing transaction; on sqlite it polls.
type Relay struct {
	store        *repository.Store
	activity     *repository.ActivityRepository
	publisher    ports.ActivityPublisher
	dsn          string
	pollInterval time.Duration
	log          *zap.Logger

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

func NewRelay(store *repository.Store, dsn string, publisher ports.ActivityPublisher, log *zap.Logger) *Relay {
	return &Relay{
		store:         store,
		activity:      repository.NewActivityRepository(store),
		publisher:     publisher,
		dsn:           dsn,
		pollInterval:  DefaultPollInterval,
		log:           log.Named("relay"),
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// SetPollInterval changes how often the relay looks for pending events when
// it cannot rely on NOTIFY.
func (r *Relay) SetPollInterval(d time.Duration) {
	r.pollInterval = d
}

// IsHealthy is the liveness signal: the process is running its loop.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can make progress: the store breaker is
// closed and a pass has completed recently.
func (r *Relay) IsReady() bool {
	if r.store.BreakerOpen() {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

// Backlog returns how many events are still waiting to be published.
func (r *Relay) Backlog(ctx context.Context) (int, error) {
	return r.activity.PendingCount(ctx)
}

func (r *Relay) markProgress(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if healthy {
		r.lastProcessed = time.Now()
	}
	r.healthy = healthy
}

// Start runs until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	// catch up on anything written while the relay was down
	if _, err := r.Drain(ctx); err != nil {
		r.log.Error("failed to process startup backlog", zap.Error(err))
	}

	if r.store.IsPostgres() {
		return r.listen(ctx)
	}
	return r.poll(ctx, r.pollInterval)
}

func (r *Relay) listen(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.Warn("listener error", zap.Error(err))
		}
	}

	listener := pq.NewListener(r.dsn, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(repository.ActivityChannel); err != nil {
		return err
	}
	r.log.Info("listening for activity notifications", zap.String("channel", repository.ActivityChannel))

	ticker := time.NewTicker(listenPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("shutting down")
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// connection was lost; events may have been missed
				r.log.Warn("listener reconnected, draining backlog")
				r.markProgress(false)
				r.drainAndMark(ctx)
				continue
			}
			if err := r.processEvent(ctx, n.Extra); err != nil {
				r.log.Error("failed to process event", zap.String("event_id", n.Extra), zap.Error(err))
				continue
			}
			r.markProgress(true)

		case <-ticker.C:
			go listener.Ping()
			r.drainAndMark(ctx)
		}
	}
}

func (r *Relay) poll(ctx context.Context, interval time.Duration) error {
	r.log.Info("polling for activity events", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.drainAndMark(ctx)
		}
	}
}

func (r *Relay) drainAndMark(ctx context.Context) {
	if _, err := r.Drain(ctx); err != nil {
		r.log.Error("periodic processing failed", zap.Error(err))
		return
	}
	r.markProgress(true)
}

// processEvent relays a single notified event.
func (r *Relay) processEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.activity.ProcessByID(ctx, eventID, r.publish)
	return err
}

// Drain relays pending events in batches until none are left or a batch
// makes no progress. It returns how many events were published.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		batchCtx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
		n, err := r.activity.ProcessPending(batchCtx, maxEventsPerBatch, r.publish)
		cancel()
		total += n
		if err != nil {
			return total, err
		}
		if n < maxEventsPerBatch {
			return total, nil
		}
	}
}

func (r *Relay) publish(ctx context.Context, evt domain.ActivityEvent) error {
	if err := r.publisher.PublishActivity(ctx, evt); err != nil {
		r.log.Warn("failed to publish event, will retry",
			zap.String("event_id", evt.ID),
			zap.Error(err))
		return err
	}
	r.log.Debug("published event",
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.EventType),
		zap.String("kind", string(evt.Kind)))
	return nil
}
