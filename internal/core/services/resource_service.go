package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/identity"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/policy"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/validation"
)

// Option customizes the collaborators shared by the services in this package.
type Option func(*options)

type options struct {
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

func defaultOptions() options {
	return options{
		newID:  identity.Generate,
		now:    time.Now,
		logger: zap.NewNop(),
	}
}

// WithIDGenerator replaces the identity generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ResourceService implements create, list and delete for one Kind. T is the
// record struct and P its pointer, which exposes the shared Meta.
type ResourceService[T any, P domain.Entity[T]] struct {
	spec  KindSpec[T]
	repo  ports.RecordRepository[T]
	newID func() string
	now   func() time.Time
	log   *zap.Logger
}

var _ ports.ResourceService[domain.Complaint] = (*ResourceService[domain.Complaint, *domain.Complaint])(nil)

func NewResourceService[T any, P domain.Entity[T]](
	spec KindSpec[T],
	repo ports.RecordRepository[T],
	opts ...Option,
) *ResourceService[T, P] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ResourceService[T, P]{
		spec:  spec,
		repo:  repo,
		newID: o.newID,
		now:   o.now,
		log:   o.logger.With(zap.String("kind", string(spec.Kind))),
	}
}

func (s *ResourceService[T, P]) Kind() domain.Kind {
	return s.spec.Kind
}

// Create validates fields, stamps identity, owner and timestamps, and
// inserts the record. A colliding id is regenerated and retried once.
func (s *ResourceService[T, P]) Create(ctx context.Context, fields validation.Fields, caller domain.Caller) (*T, error) {
	if caller.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	rec, problems := s.spec.Decode(fields)
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	meta := P(&rec).Metadata()
	meta.OwnerID = caller.ID
	meta.CreatedAt = now
	meta.UpdatedAt = now

	for attempt := 1; ; attempt++ {
		meta.ID = s.newID()

		err := s.repo.Insert(ctx, &rec)
		if err == nil {
			break
		}
		if attempt == 1 && errors.Is(err, domain.ErrDuplicateKey) {
			idCollisions.WithLabelValues(string(s.spec.Kind)).Inc()
			s.log.Warn("generated id already taken, retrying", zap.String("id", meta.ID))
			continue
		}
		return nil, fmt.Errorf("create %s: %w", s.spec.Kind, err)
	}

	recordsCreated.WithLabelValues(string(s.spec.Kind)).Inc()
	s.log.Debug("record created", zap.String("id", meta.ID), zap.String("owner", caller.ID))
	return &rec, nil
}

// List returns every record of the kind, newest first.
func (s *ResourceService[T, P]) List(ctx context.Context) ([]T, error) {
	recs, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.spec.Kind, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

// Delete removes the record when the caller owns it or is an admin. Existence
// is checked before authorization so a missing record always reads NotFound.
func (s *ResourceService[T, P]) Delete(ctx context.Context, id string, caller domain.Caller) error {
	if caller.ID == "" {
		return domain.ErrUnauthenticated
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.spec.Kind, id, err)
	}

	owner := P(rec).Metadata().OwnerID
	if !policy.CanDelete(caller.ID, caller.Role, owner) {
		deletesDenied.WithLabelValues(string(s.spec.Kind)).Inc()
		s.log.Info("delete denied",
			zap.String("id", id),
			zap.String("caller", caller.ID),
			zap.String("owner", owner))
		return domain.ErrForbidden
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.spec.Kind, id, err)
	}

	recordsDeleted.WithLabelValues(string(s.spec.Kind)).Inc()
	s.log.Debug("record deleted", zap.String("id", id), zap.String("caller", caller.ID))
	return nil
}
