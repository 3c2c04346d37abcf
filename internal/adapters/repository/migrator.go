package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

// Migrator applies the embedded schema scripts in version order. Each script
// runs in its own transaction together with its schema_migrations row.
type Migrator struct {
	store  *Store
	source fs.FS
	log    *zap.Logger
}

func NewMigrator(store *Store, log *zap.Logger) *Migrator {
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return &Migrator{
		store:  store,
		source: sub,
		log:    log.Named("migrator"),
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	if _, err := m.store.DB.ExecContext(ctx, createMigrationsTable); err != nil {
		return err
	}

	list, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return err
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	final, err := scriptVersion(list[len(list)-1].Name())
	if err != nil {
		return err
	}
	if final > current {
		m.log.Info("applying schema migrations", zap.Int("from", current), zap.Int("to", final))
	}

	for _, f := range list {
		name := f.Name()
		v, err := scriptVersion(name)
		if err != nil {
			return err
		}
		if v <= current {
			continue
		}

		script, err := fs.ReadFile(m.source, name)
		if err != nil {
			return err
		}

		m.log.Debug("executing migration", zap.String("migration_name", name))
		err = m.store.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return err
			}
			query, args, err := m.store.Builder().
				Insert("schema_migrations").
				Columns("version", "applied_at").
				Values(v, time.Now().UTC()).
				ToSql()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, query, args...)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		current = v
	}

	return nil
}

// Version returns the highest applied migration, or 0 for a fresh database.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var v int
	err := m.store.DB.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	return v, err
}

// scriptVersion extracts the version from a name like "0002_outbox_events.sql".
func scriptVersion(filename string) (int, error) {
	return strconv.Atoi(strings.Split(filename, "_")[0])
}
