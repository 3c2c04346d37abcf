package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
)

const (
	pqUniqueViolation = pq.ErrorCode("23505")
	emailConstraint   = "users_email_key"
)

// classify maps driver errors onto the domain error taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrStoreUnavailable):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		if pqErr.Constraint == emailConstraint {
			return domain.ErrEmailTaken
		}
		return domain.ErrDuplicateKey
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		// "UNIQUE constraint failed: users.email"
		if strings.Contains(liteErr.Error(), "users.email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrDuplicateKey
	}

	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// isHealthyOutcome tells the breaker which results say nothing about the
// health of the database.
func isHealthyOutcome(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrDuplicateKey)
}

// errorLabel is a metrics-safe name for a classified error.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, domain.ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, gobreaker.ErrOpenState):
		return "circuit_open"
	default:
		return "unavailable"
	}
}
