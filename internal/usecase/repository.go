package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// SessionStore хранит состояние страницы добавления между запросами посетителя.
type SessionStore interface {
	// Load возвращает e.ErrSessionNotFound, если сессии нет или она истекла.
	Load(ctx context.Context, id string) (*domain.PageSession, error)
	// Update атомарно применяет fn к сохранённому (или пустому) состоянию и продлевает его на ttl.
	// fn может быть вызвана повторно, если состояние изменилось параллельно.
	Update(ctx context.Context, id string, ttl time.Duration, fn func(*domain.PageSession)) error
}

// CategoryCache кэширует список категорий, полученный из бэкенда.
type CategoryCache interface {
	// Get возвращает e.ErrCacheMiss при промахе.
	Get(ctx context.Context) (domain.Categories, error)
	Set(ctx context.Context, categories domain.Categories) error
	Invalidate(ctx context.Context) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
