package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	fileDB "minidrive-api/internal/infrastructure/db/postgres/file"
	userDB "minidrive-api/internal/infrastructure/db/postgres/user"
	"minidrive-api/internal/infrastructure/metrics"
	"minidrive-api/internal/infrastructure/mq"
	"minidrive-api/internal/infrastructure/storage"
	fileDTO "minidrive-api/internal/interface/api/rest/dto/file"
)

type FileService struct {
	storage        ports.Storage
	fileRepository file.Repository
	userRepository user.Repository
	publisher      ports.EventPublisher
	mCounter       *prometheus.CounterVec
	logger         *zap.Logger

	maxUploadBytes int64
	contentRoute   string
	newStoredName  func(mediaType, originalName string) (string, error)
}

func NewFileService(
	storage ports.Storage,
	fileRepository file.Repository,
	userRepository user.Repository,
	publisher ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
	maxUploadBytes int64,
	contentRoute string,
) *FileService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = file.DefaultMaxUploadBytes
	}

	return &FileService{
		storage:        storage,
		fileRepository: fileRepository,
		userRepository: userRepository,
		publisher:      publisher,
		mCounter:       mCounter,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		contentRoute:   contentRoute,
		newStoredName:  file.NewStoredName,
	}
}

var _ ports.FileService = (*FileService)(nil)

// Upload validates, writes bytes, then records metadata. A registry row
// never exists without its bytes.
func (fs *FileService) Upload(ctx context.Context, owner user.Identity, in file.Upload) (*file.File, error) {
	mediaType, err := file.Validate(in.MediaType, in.Size, fs.maxUploadBytes)
	if err != nil {
		fs.mCounter.WithLabelValues(metrics.FileUploadRejected).Inc()
		return nil, err
	}

	ownerID, err := fs.internalID(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}

	storedName, err := fs.newStoredName(mediaType, in.OriginalName)
	if err != nil {
		return nil, err
	}

	// one byte over the ceiling is enough to tell a lying Content-Length
	n, err := fs.storage.Write(ctx, owner.UserID, storedName, capBody(in.Body, fs.maxUploadBytes+1), in.Size)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			fs.logger.Error("stored name collision", zap.Stringer("owner", owner.UserID), zap.String("stored_name", storedName))
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	switch {
	case n > fs.maxUploadBytes:
		fs.discard(ctx, owner.UserID, storedName)
		fs.mCounter.WithLabelValues(metrics.FileUploadRejected).Inc()
		return nil, file.ErrFileTooLarge
	case n == 0:
		fs.discard(ctx, owner.UserID, storedName)
		fs.mCounter.WithLabelValues(metrics.FileUploadRejected).Inc()
		return nil, file.ErrEmptyFile
	}

	f, err := fs.fileRepository.Record(ctx, ownerID, &file.File{
		OriginalName: file.CleanOriginalName(in.OriginalName),
		StoredName:   storedName,
		MediaType:    mediaType,
		SizeBytes:    n,
	})
	if err != nil {
		fs.discard(ctx, owner.UserID, storedName)
		if errors.Is(err, fileDB.ErrOwnerMissing) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	fs.mCounter.WithLabelValues(metrics.FileUploaded).Inc()
	fs.publisher.Publish(mq.NewEvent(
		mq.ActionFileUploaded,
		owner.UserID.String(),
		fileDTO.ToResponseFile(*f, fs.contentRoute),
	))

	return f, nil
}

func (fs *FileService) List(ctx context.Context, owner user.Identity) (file.Files, error) {
	ownerID, err := fs.internalID(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}

	return fs.fileRepository.FetchByOwner(ctx, ownerID)
}

// Open returns the record and its bytes. Missing bytes read as a missing file.
func (fs *FileService) Open(ctx context.Context, requester user.Identity, isAdmin bool, id file.ID) (*file.File, io.ReadCloser, error) {
	f, err := fs.authorize(ctx, requester, isAdmin, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := fs.storage.Open(ctx, f.OwnerUUID, f.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fs.logger.Warn("registry row without bytes",
				zap.Stringer("file_id", f.UUID),
				zap.Stringer("owner", f.OwnerUUID),
				zap.String("stored_name", f.StoredName),
			)
			fs.mCounter.WithLabelValues(metrics.StorageMissing).Inc()
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return f, rc, nil
}

// Delete removes bytes first, then the row. A failed or missing unlink is
// logged and counted but never stops the row removal.
func (fs *FileService) Delete(ctx context.Context, requester user.Identity, isAdmin bool, id file.ID) error {
	f, err := fs.authorize(ctx, requester, isAdmin, id)
	if err != nil {
		return err
	}

	if err = fs.storage.Remove(ctx, f.OwnerUUID, f.StoredName); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fs.logger.Warn("bytes already gone on delete",
				zap.Stringer("file_id", f.UUID),
				zap.Stringer("owner", f.OwnerUUID),
				zap.String("stored_name", f.StoredName),
			)
			fs.mCounter.WithLabelValues(metrics.StorageMissing).Inc()
		} else {
			fs.logger.Error("failed to remove bytes on delete",
				zap.Stringer("file_id", f.UUID),
				zap.Stringer("owner", f.OwnerUUID),
				zap.String("stored_name", f.StoredName),
				zap.Error(err),
			)
			fs.mCounter.WithLabelValues(metrics.StorageRemoveFailed).Inc()
		}
	}

	var deleted bool
	if isAdmin {
		deleted, err = fs.fileRepository.DeleteAny(ctx, f.UUID)
	} else {
		var requesterID user.ID
		if requesterID, err = fs.internalID(ctx, requester.UserID); err != nil {
			return err
		}
		deleted, err = fs.fileRepository.DeleteOwned(ctx, f.UUID, requesterID)
	}
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFileNotFound
	}

	fs.mCounter.WithLabelValues(metrics.FileDeleted).Inc()
	fs.publisher.Publish(mq.NewEvent(
		mq.ActionFileDeleted,
		requester.UserID.String(),
		fileDTO.ToResponseFile(*f, fs.contentRoute),
	))

	return nil
}

func (fs *FileService) authorize(ctx context.Context, requester user.Identity, isAdmin bool, id file.ID) (*file.File, error) {
	f, err := fs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}
	if f.OwnerUUID != requester.UserID && !isAdmin {
		return nil, ErrForbidden
	}

	return f, nil
}

func (fs *FileService) internalID(ctx context.Context, uuid user.UUID) (user.ID, error) {
	id, err := fs.userRepository.FetchInternalID(ctx, uuid)
	if err != nil {
		if errors.Is(err, userDB.ErrUserNotFound) {
			return 0, ErrOwnerNotFound
		}
		return 0, err
	}

	return id, nil
}

// discard removes bytes that will never get a registry row. It runs even if
// the request context is gone.
func (fs *FileService) discard(ctx context.Context, owner user.UUID, storedName string) {
	if err := fs.storage.Remove(context.WithoutCancel(ctx), owner, storedName); err != nil {
		fs.logger.Error("orphan cleanup failed",
			zap.Stringer("owner", owner),
			zap.String("stored_name", storedName),
			zap.Error(err),
		)
		fs.mCounter.WithLabelValues(metrics.OrphanCleanupFailed).Inc()
	}
}

// capBody limits r to n bytes. Sources that can seek and read at offsets
// (multipart files) come back as an io.SectionReader of their real length,
// so object stores can rewind the body for checksums.
func capBody(r io.Reader, n int64) io.Reader {
	ra, okAt := r.(io.ReaderAt)
	rs, okSeek := r.(io.Seeker)
	if !okAt || !okSeek {
		return io.LimitReader(r, n)
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return io.LimitReader(r, n)
	}
	if _, err = rs.Seek(0, io.SeekStart); err != nil {
		return io.LimitReader(r, n)
	}

	return io.NewSectionReader(ra, 0, min(end, n))
}
