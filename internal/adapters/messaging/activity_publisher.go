package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

var _ ports.ActivityPublisher = (*RabbitMQBroker)(nil)

// PublishActivity sends evt as a persistent JSON message. The event type is
// carried in the message Type so consumers can route without decoding.
func (rmq *RabbitMQBroker) PublishActivity(ctx context.Context, evt domain.ActivityEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.ID,
				Type:         evt.EventType,
				Timestamp:    evt.CreatedAt,
				Body:         body,
			},
		)
		return nil, err
	})
	if err != nil {
		rmq.log.Warn("publish failed", zap.String("event_id", evt.ID), zap.Error(err))
		return err
	}
	return nil
}
