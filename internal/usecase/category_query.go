package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/jitter"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

// CategoryQuery загружает список категорий в фоне и отдаёт его снимки.
// До завершения первой загрузки статус равен loading и данные не отдаются.
// Перезагрузка не возвращает статус в loading: старые данные видны, пока не придут новые.
type CategoryQuery struct {
	backend   CatalogBackend
	cache     CategoryCache
	endpoints Endpoints
	retries   int
	backoff   jitter.Backoff
	logger    logger.Logger
	now       func() time.Time

	mu        sync.RWMutex
	snap      CategoriesSnapshot
	baseCtx   context.Context
	started   uint64 // номер последней запущенной загрузки
	applied   uint64 // номер загрузки, результат которой сейчас в snap
	running   int
	pending   chan struct{} // завершение последней запущенной загрузки
	listeners []func(CategoryStatus)

	notifyMu sync.Mutex
	notified CategoryStatus // последний статус, отданный обработчикам
}

func NewCategoryQuery(
	backend CatalogBackend,
	cache CategoryCache,
	endpoints Endpoints,
	retries int,
	backoff jitter.Backoff,
	logger logger.Logger,
) *CategoryQuery {
	if cache == nil {
		cache = nopCategoryCache{}
	}

	return &CategoryQuery{
		backend:   backend,
		cache:     cache,
		endpoints: endpoints,
		retries:   retries,
		backoff:   backoff,
		logger:    logger,
		now:       time.Now,
		snap:      CategoriesSnapshot{Status: CategoriesLoading},
		baseCtx:   context.Background(),
		notified:  CategoriesLoading,
	}
}

// OnStatusChange регистрирует обработчик смены статуса. Регистрировать до Start.
func (q *CategoryQuery) OnStatusChange(fn func(CategoryStatus)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

// Start запускает первую загрузку (с чтением кэша). ctx ограничивает все последующие загрузки.
func (q *CategoryQuery) Start(ctx context.Context) <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.baseCtx = ctx

	return q.spawnLocked(true)
}

// Refetch перезагружает список из бэкенда мимо кэша.
func (q *CategoryQuery) Refetch() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.spawnLocked(false)
}

// Retry запускает перезагрузку, только если сейчас ничего не загружается.
// Иначе возвращает канал уже идущей загрузки.
func (q *CategoryQuery) Retry() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running > 0 {
		return q.pending
	}

	return q.spawnLocked(false)
}

// Settled возвращает канал, который закрывается по завершении последней запущенной загрузки.
func (q *CategoryQuery) Settled() <-chan struct{} {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.running > 0 {
		return q.pending
	}

	return closedCh
}

// Snapshot возвращает копию текущего состояния.
func (q *CategoryQuery) Snapshot() CategoriesSnapshot {
	q.mu.RLock()
	defer q.mu.RUnlock()

	snap := q.snap
	if q.snap.Data != nil {
		snap.Data = make(domain.Categories, len(q.snap.Data))
		copy(snap.Data, q.snap.Data)
	}

	return snap
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// spawnLocked вызывается под q.mu.
func (q *CategoryQuery) spawnLocked(useCache bool) <-chan struct{} {
	q.started++
	q.running++
	seq := q.started
	ctx := q.baseCtx

	done := make(chan struct{})
	q.pending = done

	go func() {
		defer close(done)
		defer func() {
			q.mu.Lock()
			q.running--
			q.mu.Unlock()
		}()
		q.fetch(ctx, seq, useCache)
	}()

	return done
}

func (q *CategoryQuery) fetch(ctx context.Context, seq uint64, useCache bool) {
	const op = "CategoryQuery.fetch"

	if useCache {
		categories, err := q.cache.Get(ctx)
		if err == nil {
			q.logger.Debugf("categories served from cache: %d item(s)", len(categories))
			q.apply(seq, categories, nil)
			return
		}
		if !errors.Is(err, e.ErrCacheMiss) {
			q.logger.Warnf("category cache read failed: %v", e.Wrap(op, err))
		}
	} else if err := q.cache.Invalidate(ctx); err != nil {
		q.logger.Warnf("category cache invalidation failed: %v", e.Wrap(op, err))
	}

	categories, err := q.load(ctx)
	if err != nil {
		q.logger.Errorf(err, "%s: categories load failed", op)
		q.apply(seq, nil, err)
		return
	}

	if err := q.cache.Set(ctx, categories); err != nil {
		q.logger.Warnf("category cache write failed: %v", e.Wrap(op, err))
	}

	q.apply(seq, categories, nil)
}

// load запрашивает категории с повторами и экспоненциальной задержкой.
func (q *CategoryQuery) load(ctx context.Context) (domain.Categories, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= q.retries; attempt++ {
		if attempt > 0 {
			q.logger.Warnf("categories fetch failed, retrying (attempt %d): %v", attempt+1, lastErr)
			if err := q.backoff.Sleep(ctx, attempt-1); err != nil {
				lastErr = err
				break
			}
		}

		attempts++
		categories, err := q.backend.ListCategories(ctx, q.endpoints.CategoriesPath())
		if err == nil {
			if categories == nil {
				categories = domain.Categories{}
			}
			return categories, nil
		}
		lastErr = err
	}

	return nil, &e.LoadError{Attempts: attempts, Err: lastErr}
}

// apply публикует результат загрузки seq, если не применён результат более новой загрузки.
func (q *CategoryQuery) apply(seq uint64, categories domain.Categories, err error) {
	q.mu.Lock()
	if seq < q.applied {
		q.mu.Unlock()
		q.logger.Debugf("dropping stale categories result #%d", seq)
		return
	}
	q.applied = seq

	if err != nil {
		q.snap.Status = CategoriesError
		q.snap.Err = err
	} else {
		q.snap = CategoriesSnapshot{
			Status: CategoriesReady,
			Data:   categories,
		}
	}
	q.snap.UpdatedAt = q.now()
	q.mu.Unlock()

	q.notify()
}

// notify отдаёт обработчикам текущий статус. Рассылки идут по одной, и каждая читает
// статус заново, поэтому последним обработчики всегда видят актуальный статус.
func (q *CategoryQuery) notify() {
	q.notifyMu.Lock()
	defer q.notifyMu.Unlock()

	q.mu.RLock()
	status := q.snap.Status
	listeners := append([]func(CategoryStatus){}, q.listeners...)
	q.mu.RUnlock()

	if status == q.notified {
		return
	}
	q.notified = status

	for _, fn := range listeners {
		fn(status)
	}
}

type nopCategoryCache struct{}

func (nopCategoryCache) Get(context.Context) (domain.Categories, error) {
	return nil, e.ErrCacheMiss
}

func (nopCategoryCache) Set(context.Context, domain.Categories) error {
	return nil
}

func (nopCategoryCache) Invalidate(context.Context) error {
	return nil
}
