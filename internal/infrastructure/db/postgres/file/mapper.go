package file

import (
	domain "minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
)

func fromDBModel(model *File) *domain.File {
	return &domain.File{
		UUID:      model.UUID,
		OwnerID:   user.ID(model.UserID),
		OwnerUUID: model.OwnerUUID,

		OriginalName: model.OriginalName,
		StoredName:   model.StoredName,
		MediaType:    model.MediaType,
		SizeBytes:    model.SizeBytes,

		CreatedAt: model.CreatedAt,
	}
}

func fromDBModels(models Files) domain.Files {
	fs := make(domain.Files, len(models))
	for idx, f := range models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
