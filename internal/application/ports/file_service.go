package ports

import (
	"context"
	"io"

	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
)

type FileService interface {
	Upload(ctx context.Context, owner user.Identity, in file.Upload) (*file.File, error)
	List(ctx context.Context, owner user.Identity) (file.Files, error)
	Open(ctx context.Context, requester user.Identity, isAdmin bool, id file.ID) (*file.File, io.ReadCloser, error)
	Delete(ctx context.Context, requester user.Identity, isAdmin bool, id file.ID) error
}
