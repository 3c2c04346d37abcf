// Package repository is the SQL store adapter. It runs on an embedded
// sqlite3 file by default or on postgres, with the same schema and queries.
package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/config"
)

const pingTimeout = 5 * time.Second

// Store owns the connection pool and the per-dialect query builder shared by
// the repositories.
type Store struct {
	DB      *sqlx.DB
	driver  string
	builder sq.StatementBuilderType
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Open connects to the database and applies pending migrations.
func Open(ctx context.Context, driver, dsn string, log *zap.Logger) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	placeholder, err := placeholderFor(driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	switch driver {
	case config.DriverSQLite:
		// one connection serializes every statement, and keeps a
		// ":memory:" database alive for the life of the pool
		db.SetMaxOpenConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	case config.DriverPostgres:
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	s := &Store{
		DB:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		log:     log.Named("store"),
	}
	s.breaker = config.NewCircuitBreaker(config.BreakerStore, isHealthyOutcome, log)

	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := NewMigrator(s, log).Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info("store ready", zap.String("driver", driver))
	return s, nil
}

func placeholderFor(driver string) (sq.PlaceholderFormat, error) {
	switch driver {
	case config.DriverSQLite:
		return sq.Question, nil
	case config.DriverPostgres:
		return sq.Dollar, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) IsPostgres() bool {
	return s.driver == config.DriverPostgres
}

// Builder returns a squirrel builder using the driver's placeholders.
func (s *Store) Builder() sq.StatementBuilderType {
	return s.builder
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.driver, classify(err))
	}
	return nil
}

// BreakerOpen reports whether recent failures have cut the store off.
func (s *Store) BreakerOpen() bool {
	return s.breaker.State() == gobreaker.StateOpen
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// inTx runs fn in a transaction, committing when it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
