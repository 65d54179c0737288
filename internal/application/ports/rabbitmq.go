package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"minidrive-api/internal/infrastructure/mq"
)

type RabbitMQ interface {
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	Publish(e mq.Event)
	GetConn() *amqp091.Connection
}
