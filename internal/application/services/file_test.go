package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	"minidrive-api/internal/infrastructure/metrics"
	"minidrive-api/internal/infrastructure/mq"
	"minidrive-api/internal/infrastructure/storage/local"
)

const testContentRoute = "/api/v1/files/:file_id/content"

type fileFixture struct {
	svc       *FileService
	users     *FakeUserRepository
	files     *FakeFileRepository
	publisher *FakePublisher
	logs      *observer.ObservedLogs
	root      string
}

func newFileFixture(t *testing.T, maxBytes int64) *fileFixture {
	t.Helper()
	root := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	store, err := local.New(logger, root)
	require.NoError(t, err)

	users := &FakeUserRepository{}
	files := newFakeFileRepository(users)
	publisher := &FakePublisher{}

	return &fileFixture{
		svc:       NewFileService(store, files, users, publisher, newCounter(), logger, maxBytes, testContentRoute),
		users:     users,
		files:     files,
		publisher: publisher,
		logs:      logs,
		root:      root,
	}
}

func (fx *fileFixture) newUser(t *testing.T, email string) user.Identity {
	t.Helper()
	u, err := fx.users.CreateUser(context.Background(), user.User{Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return user.Identity{UserID: u.UUID, Email: u.Email}
}

func (fx *fileFixture) ownerDirEntries(t *testing.T, owner user.Identity) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(fx.root, owner.UserID.String()))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func upload(name, mediaType string, body []byte) file.Upload {
	return file.Upload{
		OriginalName: name,
		MediaType:    mediaType,
		Size:         int64(len(body)),
		Body:         bytes.NewReader(body),
	}
}

func TestFileService_UploadReportPDF(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")
	b := fx.newUser(t, "b@example.com")

	payload := bytes.Repeat([]byte{'x'}, 2048)
	f, err := fx.svc.Upload(ctx, a, upload("report.pdf", "application/pdf", payload))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.OriginalName)
	assert.Equal(t, "application/pdf", f.MediaType)
	assert.Equal(t, int64(2048), f.SizeBytes)
	assert.True(t, strings.HasSuffix(f.StoredName, ".pdf"))
	assert.NotEqual(t, "report.pdf", f.StoredName)

	listA, err := fx.svc.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, f.UUID, listA[0].UUID)

	listB, err := fx.svc.List(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, listB)

	onDisk, err := os.ReadFile(filepath.Join(fx.root, a.UserID.String(), f.StoredName))
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)

	assert.Equal(t, []string{mq.ActionFileUploaded}, fx.publisher.actions())
	assert.Equal(t, float64(1), testutil.ToFloat64(fx.svc.mCounter.WithLabelValues(metrics.FileUploaded)))
}

func TestFileService_UploadRejectedBeforeWrite(t *testing.T) {
	tests := []struct {
		name    string
		in      file.Upload
		wantErr error
	}{
		{
			name:    "zip not allowed",
			in:      upload("archive.zip", "application/zip", []byte("PK\x03\x04")),
			wantErr: file.ErrUnsupportedMediaType,
		},
		{
			name:    "declared too large",
			in:      file.Upload{OriginalName: "big.mp4", MediaType: "video/mp4", Size: 1025, Body: bytes.NewReader(make([]byte, 1025))},
			wantErr: file.ErrFileTooLarge,
		},
		{
			name:    "empty",
			in:      upload("empty.png", "image/png", nil),
			wantErr: file.ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fx := newFileFixture(t, 1024)
			a := fx.newUser(t, "a@example.com")

			f, err := fx.svc.Upload(context.Background(), a, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f)

			list, err := fx.svc.List(context.Background(), a)
			require.NoError(t, err)
			assert.Empty(t, list)
			assert.Empty(t, fx.ownerDirEntries(t, a), "no bytes written")
			assert.Empty(t, fx.publisher.actions())
		})
	}
}

func TestFileService_UploadBodyLongerThanDeclared(t *testing.T) {
	fx := newFileFixture(t, 1024)
	a := fx.newUser(t, "a@example.com")

	in := file.Upload{OriginalName: "liar.png", MediaType: "image/png", Size: 10, Body: bytes.NewReader(make([]byte, 4096))}
	_, err := fx.svc.Upload(context.Background(), a, in)
	assert.ErrorIs(t, err, file.ErrFileTooLarge)
	assert.Zero(t, fx.files.count())
	assert.Empty(t, fx.ownerDirEntries(t, a))
}

func TestFileService_UploadRegistryFailureCleansUp(t *testing.T) {
	fx := newFileFixture(t, 0)
	a := fx.newUser(t, "a@example.com")
	fx.files.recordErr = errors.New("registry down")

	_, err := fx.svc.Upload(context.Background(), a, upload("a.png", "image/png", []byte("png")))
	require.Error(t, err)
	assert.Empty(t, fx.ownerDirEntries(t, a), "orphan removed")
	assert.Empty(t, fx.publisher.actions())
}

func TestFileService_UploadStoredNameCollision(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")
	fx.svc.newStoredName = func(string, string) (string, error) { return "fixedfixedfixed1.png", nil }

	first, err := fx.svc.Upload(ctx, a, upload("one.png", "image/png", []byte("first")))
	require.NoError(t, err)

	_, err = fx.svc.Upload(ctx, a, upload("two.png", "image/png", []byte("second")))
	assert.ErrorIs(t, err, ErrStorage)

	onDisk, err := os.ReadFile(filepath.Join(fx.root, a.UserID.String(), first.StoredName))
	require.NoError(t, err)
	assert.Equal(t, "first", string(onDisk), "existing bytes untouched")
	assert.Equal(t, 1, fx.files.count())
}

func TestFileService_UploadUnknownOwner(t *testing.T) {
	fx := newFileFixture(t, 0)
	ghost := user.Identity{UserID: uuid.New(), Email: "ghost@example.com"}

	_, err := fx.svc.Upload(context.Background(), ghost, upload("a.png", "image/png", []byte("png")))
	assert.ErrorIs(t, err, ErrOwnerNotFound)
	assert.Empty(t, fx.ownerDirEntries(t, ghost))
}

func TestFileService_ListNewestFirst(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")

	var ids []file.ID
	for _, name := range []string{"1.png", "2.png", "3.png"} {
		f, err := fx.svc.Upload(ctx, a, upload(name, "image/png", []byte(name)))
		require.NoError(t, err)
		ids = append(ids, f.UUID)
	}

	list, err := fx.svc.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []file.ID{ids[2], ids[1], ids[0]}, []file.ID{list[0].UUID, list[1].UUID, list[2].UUID})
}

func TestFileService_DeleteByOwner(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")

	f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, a, false, f.UUID))

	_, _, err = fx.svc.Open(ctx, a, false, f.UUID)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Empty(t, fx.ownerDirEntries(t, a))

	err = fx.svc.Delete(ctx, a, false, f.UUID)
	assert.ErrorIs(t, err, ErrFileNotFound, "second delete is not-found")

	assert.Equal(t, []string{mq.ActionFileUploaded, mq.ActionFileDeleted}, fx.publisher.actions())
}

func TestFileService_DeleteForbiddenForStranger(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")
	b := fx.newUser(t, "b@example.com")

	f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
	require.NoError(t, err)

	err = fx.svc.Delete(ctx, b, false, f.UUID)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := fx.svc.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, fx.ownerDirEntries(t, a), 1)

	_, _, err = fx.svc.Open(ctx, b, false, f.UUID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFileService_DeleteByAdministrator(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")
	admin := fx.newUser(t, "admin@example.com")

	f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, admin, true, f.UUID))

	list, err := fx.svc.List(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, fx.ownerDirEntries(t, a))
}

func TestFileService_DeleteToleratesMissingBytes(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")

	f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(fx.root, a.UserID.String(), f.StoredName)))

	require.NoError(t, fx.svc.Delete(ctx, a, false, f.UUID))
	assert.Zero(t, fx.files.count())
	assert.Equal(t, 1, fx.logs.FilterMessage("bytes already gone on delete").Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(fx.svc.mCounter.WithLabelValues(metrics.StorageMissing)))
}

// unlinkFailingStorage serves writes and reads from the wrapped store but
// fails every Remove.
type unlinkFailingStorage struct {
	ports.Storage
	err error
}

func (s unlinkFailingStorage) Remove(context.Context, user.UUID, string) error {
	return s.err
}

func TestFileService_DeleteProceedsWhenUnlinkFails(t *testing.T) {
	for _, isAdmin := range []bool{false, true} {
		isAdmin := isAdmin
		t.Run(map[bool]string{false: "owner", true: "admin"}[isAdmin], func(t *testing.T) {
			fx := newFileFixture(t, 0)
			ctx := context.Background()
			a := fx.newUser(t, "a@example.com")
			requester := a
			if isAdmin {
				requester = fx.newUser(t, "root@example.com")
			}

			f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
			require.NoError(t, err)

			fx.svc.storage = unlinkFailingStorage{Storage: fx.svc.storage, err: errors.New("permission denied")}

			require.NoError(t, fx.svc.Delete(ctx, requester, isAdmin, f.UUID))
			assert.Zero(t, fx.files.count())

			entries := fx.logs.FilterMessage("failed to remove bytes on delete").All()
			require.Len(t, entries, 1)
			assert.Equal(t, "permission denied", entries[0].ContextMap()["error"])
			assert.Equal(t, float64(1), testutil.ToFloat64(fx.svc.mCounter.WithLabelValues(metrics.StorageRemoveFailed)))
			assert.Equal(t, float64(0), testutil.ToFloat64(fx.svc.mCounter.WithLabelValues(metrics.StorageMissing)))
			assert.Equal(t, []string{mq.ActionFileUploaded, mq.ActionFileDeleted}, fx.publisher.actions())

			_, _, err = fx.svc.Open(ctx, a, false, f.UUID)
			assert.ErrorIs(t, err, ErrFileNotFound)
		})
	}
}

func TestCapBody(t *testing.T) {
	t.Run("seekable source stays seekable", func(t *testing.T) {
		r := capBody(bytes.NewReader([]byte("hello")), 100)
		rs, ok := r.(io.ReadSeeker)
		require.True(t, ok)

		end, err := rs.Seek(0, io.SeekEnd)
		require.NoError(t, err)
		assert.Equal(t, int64(5), end, "length is the real size, not the cap")

		_, err = rs.Seek(0, io.SeekStart)
		require.NoError(t, err)
		got, err := io.ReadAll(rs)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})

	t.Run("seekable source is capped", func(t *testing.T) {
		got, err := io.ReadAll(capBody(bytes.NewReader([]byte("hello world")), 6))
		require.NoError(t, err)
		assert.Equal(t, "hello ", string(got))
	})

	t.Run("stream without offsets", func(t *testing.T) {
		r := capBody(io.LimitReader(strings.NewReader("hello world"), 100), 6)
		_, ok := r.(io.Seeker)
		assert.False(t, ok)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "hello ", string(got))
	})
}

func TestFileService_OpenMissingBytes(t *testing.T) {
	fx := newFileFixture(t, 0)
	ctx := context.Background()
	a := fx.newUser(t, "a@example.com")

	f, err := fx.svc.Upload(ctx, a, upload("a.png", "image/png", []byte("png")))
	require.NoError(t, err)

	got, rc, err := fx.svc.Open(ctx, a, false, f.UUID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png", string(body))
	assert.Equal(t, f.UUID, got.UUID)

	require.NoError(t, os.Remove(filepath.Join(fx.root, a.UserID.String(), f.StoredName)))

	_, _, err = fx.svc.Open(ctx, a, false, f.UUID)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, 1, fx.logs.FilterMessage("registry row without bytes").Len())
}

func TestFileService_OriginalNameNeverReachesDisk(t *testing.T) {
	fx := newFileFixture(t, 0)
	a := fx.newUser(t, "a@example.com")

	f, err := fx.svc.Upload(context.Background(), a, upload("../../../etc/passwd.png", "image/png", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "passwd.png", f.OriginalName)

	entries := fx.ownerDirEntries(t, a)
	require.Len(t, entries, 1)
	assert.Equal(t, f.StoredName, entries[0].Name())
	require.NoError(t, file.ValidateStoredName(f.StoredName))
}

var _ ports.Storage = (*local.Storage)(nil)
