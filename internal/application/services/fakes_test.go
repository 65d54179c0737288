package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	fileDB "minidrive-api/internal/infrastructure/db/postgres/file"
	userDB "minidrive-api/internal/infrastructure/db/postgres/user"
	"minidrive-api/internal/infrastructure/mq"
)

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "test", Name: "general_counters"},
		[]string{"result"},
	)
}

type fakeUserRow struct {
	id user.ID
	u  user.User
}

type FakeUserRepository struct {
	mu     sync.Mutex
	nextID user.ID
	rows   []*fakeUserRow
	err    error
}

func (r *FakeUserRepository) find(match func(row *fakeUserRow) bool) *fakeUserRow {
	for _, row := range r.rows {
		if match(row) {
			return row
		}
	}
	return nil
}

func (r *FakeUserRepository) FetchUserByID(_ context.Context, id user.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if row := r.find(func(row *fakeUserRow) bool { return row.u.UUID == id }); row != nil {
		u := row.u
		return &u, nil
	}
	return nil, nil
}

func (r *FakeUserRepository) FetchUserByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if row := r.find(func(row *fakeUserRow) bool { return row.u.Email == email }); row != nil {
		u := row.u
		return &u, nil
	}
	return nil, nil
}

func (r *FakeUserRepository) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.find(func(row *fakeUserRow) bool { return row.u.Email == req.Email }) != nil {
		return nil, userDB.ErrEmailAlreadyExists
	}
	r.nextID++
	req.UUID = uuid.New()
	req.CreatedAt = time.Now()
	r.rows = append(r.rows, &fakeUserRow{id: r.nextID, u: req})
	u := req
	return &u, nil
}

func (r *FakeUserRepository) FetchInternalID(_ context.Context, id user.UUID) (user.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if row := r.find(func(row *fakeUserRow) bool { return row.u.UUID == id }); row != nil {
		return row.id, nil
	}
	return 0, fmt.Errorf("uuid %s: %w", id, userDB.ErrUserNotFound)
}

func (r *FakeUserRepository) ownerUUID(id user.ID) (user.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row := r.find(func(row *fakeUserRow) bool { return row.id == id }); row != nil {
		return row.u.UUID, true
	}
	return uuid.Nil, false
}

type FakeFileRepository struct {
	mu        sync.Mutex
	users     *FakeUserRepository
	files     []*file.File
	clock     time.Time
	recordErr error
}

func newFakeFileRepository(users *FakeUserRepository) *FakeFileRepository {
	return &FakeFileRepository{users: users, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *FakeFileRepository) Record(_ context.Context, ownerID user.ID, req *file.File) (*file.File, error) {
	if r.recordErr != nil {
		return nil, r.recordErr
	}
	ownerUUID, ok := r.users.ownerUUID(ownerID)
	if !ok {
		return nil, fileDB.ErrOwnerMissing
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.OwnerID == ownerID && f.StoredName == req.StoredName {
			return nil, fileDB.ErrStoredNameTaken
		}
	}
	r.clock = r.clock.Add(time.Second)
	f := *req
	f.UUID = uuid.New()
	f.OwnerID = ownerID
	f.OwnerUUID = ownerUUID
	f.CreatedAt = r.clock
	r.files = append(r.files, &f)
	out := f
	return &out, nil
}

func (r *FakeFileRepository) FetchByOwner(_ context.Context, ownerID user.ID) (file.Files, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := file.Files{}
	for idx := len(r.files) - 1; idx >= 0; idx-- {
		if r.files[idx].OwnerID == ownerID {
			f := *r.files[idx]
			out = append(out, &f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *FakeFileRepository) FetchByID(_ context.Context, id file.ID) (*file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.UUID == id {
			out := *f
			return &out, nil
		}
	}
	return nil, nil
}

func (r *FakeFileRepository) remove(match func(f *file.File) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, f := range r.files {
		if match(f) {
			r.files = append(r.files[:idx], r.files[idx+1:]...)
			return true
		}
	}
	return false
}

func (r *FakeFileRepository) DeleteOwned(_ context.Context, id file.ID, ownerID user.ID) (bool, error) {
	return r.remove(func(f *file.File) bool { return f.UUID == id && f.OwnerID == ownerID }), nil
}

func (r *FakeFileRepository) DeleteAny(_ context.Context, id file.ID) (bool, error) {
	return r.remove(func(f *file.File) bool { return f.UUID == id }), nil
}

func (r *FakeFileRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

type FakePublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *FakePublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *FakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}
