package file

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	"minidrive-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

func scanFile(row pgx.Row) (*File, error) {
	f := new(File)
	err := row.Scan(
		&f.ID,
		&f.UUID,
		&f.UserID,
		&f.OwnerUUID,

		&f.OriginalName,
		&f.StoredName,
		&f.MediaType,
		&f.SizeBytes,

		&f.CreatedAt,
	)
	return f, err
}

func (r *Repository) Record(ctx context.Context, ownerID user.ID, req *file.File) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(
		ctx,
		InsertFile,
		uint64(ownerID), req.OriginalName, req.StoredName, req.MediaType, req.SizeBytes,
	))
	if err != nil {
		switch {
		case postgres.IsPgForeignKeyViolation(err), errors.Is(err, pgx.ErrNoRows):
			return nil, ErrOwnerMissing
		case postgres.IsPgUniqueViolation(err):
			return nil, ErrStoredNameTaken
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchByOwner(ctx context.Context, ownerID user.ID) (file.Files, error) {
	rows, err := r.db.Query(ctx, SelectFilesByOwner, uint64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := Files{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(fs), nil
}

func (r *Repository) FetchByID(ctx context.Context, id file.ID) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(ctx, SelectFileByUUID, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) DeleteOwned(ctx context.Context, id file.ID, ownerID user.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFileOwned, id.String(), uint64(ownerID))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) DeleteAny(ctx context.Context, id file.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFileAny, id.String())
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
