package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	"minidrive-api/internal/infrastructure/storage"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// Storage keeps bytes under <root>/<owner uuid>/<stored name>.
type Storage struct {
	logger *zap.Logger
	root   string
}

func New(logger *zap.Logger, root string) (*Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err = os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	logger.Info("local storage ready", zap.String("root", abs))

	return &Storage{logger: logger, root: abs}, nil
}

func (s *Storage) path(owner user.UUID, storedName string) (string, error) {
	key, err := file.StorageKey(owner, storedName)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Write creates the owner directory if needed and writes r to a new file.
// An existing file at the same path is never replaced. The file is synced
// before Write returns; on any failure the partial file is removed.
func (s *Storage) Write(ctx context.Context, owner user.UUID, storedName string, r io.Reader, _ int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p, err := s.path(owner, storedName)
	if err != nil {
		return 0, err
	}
	if err = os.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
		return 0, fmt.Errorf("create owner dir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("%s: %w", storedName, storage.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(p); rerr != nil {
			s.logger.Warn("failed to remove partial upload", zap.String("path", p), zap.Error(rerr))
		}
		return 0, fmt.Errorf("write file: %w", err)
	}

	return n, nil
}

func (s *Storage) Remove(ctx context.Context, owner user.UUID, storedName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.path(owner, storedName)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", storedName, storage.ErrNotFound)
		}
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

func (s *Storage) Open(ctx context.Context, owner user.UUID, storedName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.path(owner, storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", storedName, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

// ctxReader stops a copy once the request context is gone.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
