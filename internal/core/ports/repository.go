package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
)

// RecordRepository is the store adapter for one resource kind. Every call is
// atomic on its own; there is no transaction spanning several calls.
type RecordRepository[T any] interface {
	// Insert stores a new record. It fails with domain.ErrDuplicateKey when
	// the id is already taken.
	Insert(ctx context.Context, rec *T) error
	// ListNewestFirst returns every record ordered by created_at descending.
	ListNewestFirst(ctx context.Context) ([]T, error)
	// GetByID returns domain.ErrNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (*T, error)
	// DeleteByID returns domain.ErrNotFound when nothing was deleted.
	DeleteByID(ctx context.Context, id string) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create fails with domain.ErrEmailTaken on a duplicate email and
	// domain.ErrDuplicateKey on a duplicate id.
	Create(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, id, password string, updatedAt time.Time) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

// ActivityReader lists recent outbox events for the dashboard feed.
type ActivityReader interface {
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
}
