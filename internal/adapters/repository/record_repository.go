package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

// Table maps a Kind onto its storage table. Columns lists the kind-specific
// columns; every table also has id, user_id, created_at and updated_at.
type Table struct {
	Name    string
	Columns []string
}

var metaColumns = []string{"id", "user_id", "created_at", "updated_at"}

var tables = map[domain.Kind]Table{
	domain.KindComplaint:         {"complaints", []string{"title", "description", "category", "posted_by", "status"}},
	domain.KindNotice:            {"notices", []string{"title", "description", "category", "posted_by"}},
	domain.KindMarketplaceItem:   {"marketplace", []string{"title", "description", "price", "seller", "phone"}},
	domain.KindLostFoundItem:     {"lost_found", []string{"title", "description", "item_type", "status", "location", "contact_number"}},
	domain.KindBloodDonor:        {"blood_donation", []string{"name", "blood_type", "contact_number", "location", "available_date"}},
	domain.KindBicycle:           {"bicycles", []string{"brand", "color", "location", "contact_number", "description"}},
	domain.KindAnimalReport:      {"animal_welfare", []string{"title", "description", "location", "urgency"}},
	domain.KindFacultySuggestion: {"faculty_suggestions", []string{"title", "faculty_name", "rating", "feedback"}},
}

// TableFor returns the table backing kind.
func TableFor(kind domain.Kind) (Table, error) {
	t, ok := tables[kind]
	if !ok {
		return Table{}, fmt.Errorf("no table registered for kind %q", kind)
	}
	return t, nil
}

func (t Table) allColumns() []string {
	return append(append([]string{}, metaColumns...), t.Columns...)
}

// RecordRepository stores one Kind. Inserts and deletes write an activity
// event to the outbox in the same transaction.
type RecordRepository[T any, P domain.Entity[T]] struct {
	store     *Store
	kind      domain.Kind
	table     Table
	insertSQL string
}

var _ ports.RecordRepository[domain.Complaint] = (*RecordRepository[domain.Complaint, *domain.Complaint])(nil)

func NewRecordRepository[T any, P domain.Entity[T]](store *Store, kind domain.Kind) (*RecordRepository[T, P], error) {
	table, err := TableFor(kind)
	if err != nil {
		return nil, err
	}

	cols := table.allColumns()
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}

	return &RecordRepository[T, P]{
		store: store,
		kind:  kind,
		table: table,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.Name, strings.Join(cols, ", "), strings.Join(named, ", ")),
	}, nil
}

func (r *RecordRepository[T, P]) Insert(ctx context.Context, rec *T) error {
	meta := P(rec).Metadata()
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.kind, err)
	}
	evt := newActivityEvent(domain.EventRecordCreated, r.kind, meta.ID, meta.OwnerID, payload)

	return instrumentVoid(ctx, r.store, r.table.Name, "insert", func(ctx context.Context) error {
		return r.store.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.NamedExecContext(ctx, r.insertSQL, rec); err != nil {
				return err
			}
			return r.store.writeActivity(ctx, tx, evt)
		})
	})
}

func (r *RecordRepository[T, P]) ListNewestFirst(ctx context.Context) ([]T, error) {
	return instrument(ctx, r.store, r.table.Name, "list", func(ctx context.Context) ([]T, error) {
		query, args, err := r.store.Builder().
			Select(r.table.allColumns()...).
			From(r.table.Name).
			OrderBy("created_at DESC", "id DESC").
			ToSql()
		if err != nil {
			return nil, err
		}

		recs := []T{}
		if err := r.store.DB.SelectContext(ctx, &recs, query, args...); err != nil {
			return nil, err
		}
		return recs, nil
	})
}

func (r *RecordRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	return instrument(ctx, r.store, r.table.Name, "get", func(ctx context.Context) (*T, error) {
		query, args, err := r.store.Builder().
			Select(r.table.allColumns()...).
			From(r.table.Name).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return nil, err
		}

		var rec T
		if err := r.store.DB.GetContext(ctx, &rec, query, args...); err != nil {
			return nil, err
		}
		return &rec, nil
	})
}

// DeleteByID removes the record and reports domain.ErrNotFound when no row
// matched, including when a concurrent delete got there first.
func (r *RecordRepository[T, P]) DeleteByID(ctx context.Context, id string) error {
	return instrumentVoid(ctx, r.store, r.table.Name, "delete", func(ctx context.Context) error {
		return r.store.inTx(ctx, func(tx *sqlx.Tx) error {
			query, args, err := r.store.Builder().
				Delete(r.table.Name).
				Where(sq.Eq{"id": id}).
				Suffix("RETURNING user_id").
				ToSql()
			if err != nil {
				return err
			}

			var owner string
			if err := tx.GetContext(ctx, &owner, query, args...); err != nil {
				return err
			}

			payload, err := json.Marshal(map[string]string{"id": id})
			if err != nil {
				return err
			}
			evt := newActivityEvent(domain.EventRecordDeleted, r.kind, id, owner, payload)
			return r.store.writeActivity(ctx, tx, evt)
		})
	})
}
