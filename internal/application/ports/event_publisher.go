package ports

import "minidrive-api/internal/infrastructure/mq"

type EventPublisher interface {
	Publish(e mq.Event)
}
