package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID        uint64
		UUID      uuid.UUID
		UserID    uint64
		OwnerUUID uuid.UUID

		OriginalName string
		StoredName   string
		MediaType    string
		SizeBytes    int64

		CreatedAt time.Time
	}
	Files []*File
)
