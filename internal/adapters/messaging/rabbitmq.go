package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/config"
)

// AMQPChannel is the part of *amqp.Channel the broker publishes through.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.ActivityPublisher on a durable queue.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        AMQPChannel
	queueName string
	cb        *gobreaker.CircuitBreaker
	log       *zap.Logger
}

func NewRabbitMQBroker(amqpURL, queueName string, log *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	b := newBroker(ch, queueName, log)
	b.conn = conn
	return b, nil
}

func newBroker(ch AMQPChannel, queueName string, log *zap.Logger) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.BreakerRabbitMQ, nil, log),
		log:       log.Named("rabbitmq"),
	}
}

// Ready reports whether the connection is open and publishing is not cut off
// by the breaker.
func (rmq *RabbitMQBroker) Ready() bool {
	if rmq.conn != nil && rmq.conn.IsClosed() {
		return false
	}
	return rmq.cb.State() != gobreaker.StateOpen
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
