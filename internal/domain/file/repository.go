package file

import (
	"context"

	"minidrive-api/internal/domain/user"
)

// Repository is the file registry. FetchByID returns (nil, nil) when the
// record does not exist.
type Repository interface {
	Record(ctx context.Context, ownerID user.ID, req *File) (*File, error)
	FetchByOwner(ctx context.Context, ownerID user.ID) (Files, error)
	FetchByID(ctx context.Context, id ID) (*File, error)
	DeleteOwned(ctx context.Context, id ID, ownerID user.ID) (bool, error)
	// DeleteAny ignores ownership. Callers must have confirmed administrator
	// privilege for the current request.
	DeleteAny(ctx context.Context, id ID) (bool, error)
}
