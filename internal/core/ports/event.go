package ports

import (
	"context"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
)

// ActivityPublisher delivers outbox events to the message broker.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, evt domain.ActivityEvent) error
}
