package ports

import (
	"context"
	"io"

	"minidrive-api/internal/domain/user"
)

// Storage persists file bytes under a per-owner namespace. Implementations
// return storage.ErrNotFound and storage.ErrAlreadyExists.
type Storage interface {
	Write(ctx context.Context, owner user.UUID, storedName string, r io.Reader, size int64) (int64, error)
	Remove(ctx context.Context, owner user.UUID, storedName string) error
	Open(ctx context.Context, owner user.UUID, storedName string) (io.ReadCloser, error)
}
