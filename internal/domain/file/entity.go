package file

import (
	"io"
	"time"

	"github.com/google/uuid"

	"minidrive-api/internal/domain/user"
)

type (
	ID   = uuid.UUID
	File struct {
		UUID      ID
		OwnerID   user.ID
		OwnerUUID user.UUID

		OriginalName string
		StoredName   string
		MediaType    string
		SizeBytes    int64

		CreatedAt time.Time
	}
	Files []*File

	// Upload is an incoming file as declared by the client.
	Upload struct {
		OriginalName string
		MediaType    string
		Size         int64
		Body         io.Reader
	}
)
