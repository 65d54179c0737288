package mq

// NopPublisher is used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
