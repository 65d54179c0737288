package ports

import "context"

// RMQConsumer drains the file event queue and records each event in the
// audit log. DeliveryWorker blocks until ctx is done.
type RMQConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
