package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewLogrusLoggerWithWriter(io.Discard, "error")
}

type createCall struct {
	path string
	body any
}

type fakeBackend struct {
	mu         sync.Mutex
	creates    []createCall
	createErr  error
	createHook func(path string) // вызывается до ответа на Create

	listCalls   int
	listPaths   []string
	listResults []listResult // по одному на вызов, последний повторяется
	listGate    chan struct{}
}

type listResult struct {
	categories domain.Categories
	err        error
}

func (f *fakeBackend) ListCategories(ctx context.Context, path string) (domain.Categories, error) {
	if f.listGate != nil {
		select {
		case <-f.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.listPaths = append(f.listPaths, path)
	idx := f.listCalls
	f.listCalls++
	if len(f.listResults) == 0 {
		return nil, nil
	}
	if idx >= len(f.listResults) {
		idx = len(f.listResults) - 1
	}
	r := f.listResults[idx]
	return r.categories, r.err
}

func (f *fakeBackend) Create(_ context.Context, path string, body any) error {
	f.mu.Lock()
	f.creates = append(f.creates, createCall{path: path, body: body})
	hook, err := f.createHook, f.createErr
	f.mu.Unlock()

	if hook != nil {
		hook(path)
	}
	return err
}

func (f *fakeBackend) createCalls() []createCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]createCall(nil), f.creates...)
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.PageSession
	ttls     map[string]time.Duration
	loadErr  error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: make(map[string]domain.PageSession),
		ttls:     make(map[string]time.Duration),
	}
}

func (f *fakeSessions) Load(_ context.Context, id string) (*domain.PageSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, e.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessions) Update(_ context.Context, id string, ttl time.Duration, fn func(*domain.PageSession)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return f.loadErr
	}
	session := f.sessions[id]
	fn(&session)
	f.sessions[id] = session
	f.ttls[id] = ttl
	return nil
}

func (f *fakeSessions) get(id string) domain.PageSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

type fakeSource struct {
	mu        sync.Mutex
	snap      CategoriesSnapshot
	refetches int
	retries   int
}

func readySource(categories ...domain.Category) *fakeSource {
	return &fakeSource{snap: CategoriesSnapshot{Status: CategoriesReady, Data: categories}}
}

func (f *fakeSource) Snapshot() CategoriesSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Refetch() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refetches++
	done := make(chan struct{})
	close(done)
	return done
}

func (f *fakeSource) Retry() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries++
	return closedCh
}

func (f *fakeSource) Settled() <-chan struct{} {
	return closedCh
}

func (f *fakeSource) retryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.retries
}

func (f *fakeSource) refetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refetches
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*SubmissionRecord
	err     error
}

func (f *fakeJournal) Record(_ context.Context, r *SubmissionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
	return f.err
}

type fakeCache struct {
	mu          sync.Mutex
	data        domain.Categories
	has         bool
	invalidated int
}

func (f *fakeCache) Get(context.Context) (domain.Categories, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.has {
		return nil, e.ErrCacheMiss
	}
	return f.data, nil
}

func (f *fakeCache) Set(_ context.Context, c domain.Categories) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data, f.has = c, true
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data, f.has = nil, false
	f.invalidated++
	return nil
}
