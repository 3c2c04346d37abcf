package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

const (
	outboxTable = "outbox_events"

	// ActivityChannel is the postgres NOTIFY channel carrying new event ids.
	ActivityChannel = "campus_activity"
)

var activityColumns = []string{"id", "event_type", "kind", "record_id", "owner_id", "payload", "created_at", "processed_at"}

type activityRow struct {
	ID          string     `db:"id"`
	EventType   string     `db:"event_type"`
	Kind        string     `db:"kind"`
	RecordID    string     `db:"record_id"`
	OwnerID     string     `db:"owner_id"`
	Payload     string     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

func (r activityRow) toEvent() domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:          r.ID,
		EventType:   r.EventType,
		Kind:        domain.Kind(r.Kind),
		RecordID:    r.RecordID,
		OwnerID:     r.OwnerID,
		Payload:     json.RawMessage(r.Payload),
		CreatedAt:   r.CreatedAt,
		ProcessedAt: r.ProcessedAt,
	}
}

func newActivityEvent(eventType string, kind domain.Kind, recordID, ownerID string, payload []byte) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Kind:      kind,
		RecordID:  recordID,
		OwnerID:   ownerID,
		Payload:   payload,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// writeActivity appends evt to the outbox inside tx. On postgres the relay is
// woken through NOTIFY once the transaction commits.
func (s *Store) writeActivity(ctx context.Context, tx *sqlx.Tx, evt domain.ActivityEvent) error {
	query, args, err := s.builder.
		Insert(outboxTable).
		Columns("id", "event_type", "kind", "record_id", "owner_id", "payload", "created_at").
		Values(evt.ID, evt.EventType, string(evt.Kind), evt.RecordID, evt.OwnerID, string(evt.Payload), evt.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if s.IsPostgres() {
		if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", ActivityChannel, evt.ID); err != nil {
			return err
		}
	}
	return nil
}

// ActivityRepository reads and drains the outbox.
type ActivityRepository struct {
	store *Store
}

var _ ports.ActivityReader = (*ActivityRepository)(nil)

func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// RecentActivity returns the newest events first.
func (r *ActivityRepository) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	return instrument(ctx, r.store, outboxTable, "recent", func(ctx context.Context) ([]domain.ActivityEvent, error) {
		query, args, err := r.store.Builder().
			Select(activityColumns...).
			From(outboxTable).
			OrderBy("created_at DESC", "id DESC").
			Limit(uint64(limit)).
			ToSql()
		if err != nil {
			return nil, err
		}

		var rows []activityRow
		if err := r.store.DB.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, err
		}
		return toEvents(rows), nil
	})
}

// ProcessPending hands up to limit unprocessed events, oldest first, to
// handle and marks the ones it accepted as processed. Events whose handler
// fails stay pending for the next pass. On postgres the rows are locked so
// concurrent relays skip each other's batches.
func (r *ActivityRepository) ProcessPending(ctx context.Context, limit int, handle func(context.Context, domain.ActivityEvent) error) (int, error) {
	q := r.store.Builder().
		Select(activityColumns...).
		From(outboxTable).
		Where(sq.Eq{"processed_at": nil}).
		OrderBy("created_at", "id").
		Limit(uint64(limit))
	return r.process(ctx, "process_pending", q, handle)
}

// ProcessByID is ProcessPending for the single event named by id. It returns
// 0 when the event is already processed or locked by another relay.
func (r *ActivityRepository) ProcessByID(ctx context.Context, id string, handle func(context.Context, domain.ActivityEvent) error) (int, error) {
	q := r.store.Builder().
		Select(activityColumns...).
		From(outboxTable).
		Where(sq.Eq{"id": id, "processed_at": nil})
	return r.process(ctx, "process_by_id", q, handle)
}

func (r *ActivityRepository) process(ctx context.Context, operation string, q sq.SelectBuilder, handle func(context.Context, domain.ActivityEvent) error) (int, error) {
	if r.store.IsPostgres() {
		q = q.Suffix("FOR UPDATE SKIP LOCKED")
	}

	return instrument(ctx, r.store, outboxTable, operation, func(ctx context.Context) (int, error) {
		processed := 0
		err := r.store.inTx(ctx, func(tx *sqlx.Tx) error {
			query, args, err := q.ToSql()
			if err != nil {
				return err
			}

			var rows []activityRow
			if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
				return err
			}

			for _, row := range rows {
				if err := handle(ctx, row.toEvent()); err != nil {
					continue
				}

				update, args, err := r.store.Builder().
					Update(outboxTable).
					Set("processed_at", time.Now().UTC()).
					Where(sq.Eq{"id": row.ID}).
					ToSql()
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx, update, args...); err != nil {
					return err
				}
				processed++
			}
			return nil
		})
		return processed, err
	})
}

// PendingCount returns how many events are waiting to be relayed.
func (r *ActivityRepository) PendingCount(ctx context.Context) (int, error) {
	return instrument(ctx, r.store, outboxTable, "pending_count", func(ctx context.Context) (int, error) {
		query, args, err := r.store.Builder().
			Select("COUNT(*)").
			From(outboxTable).
			Where(sq.Eq{"processed_at": nil}).
			ToSql()
		if err != nil {
			return 0, err
		}

		var n int
		err = r.store.DB.GetContext(ctx, &n, query, args...)
		return n, err
	})
}

func toEvents(rows []activityRow) []domain.ActivityEvent {
	events := make([]domain.ActivityEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events
}
