package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		UUID         uuid.UUID `json:"id"`
		OriginalName string    `json:"original_name"`
		MediaType    string    `json:"mime"`
		SizeBytes    int64     `json:"size"`
		URL          string    `json:"url"`
		CreatedAt    time.Time `json:"created_at"`
	}
	Files        []File
	ResponseData struct {
		Data Files `json:"data"`
	}
)
