package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// AddPageUC — сценарии страницы добавления продукта и категории.
type AddPageUC interface {
	View(ctx context.Context, sessionID string) *PageView
	SubmitProduct(ctx context.Context, sessionID string, form domain.ProductForm) SubmitResult
	SubmitCategory(ctx context.Context, sessionID string, form domain.CategoryForm) SubmitResult
}

// CategorySource — асинхронный источник списка категорий.
type CategorySource interface {
	Snapshot() CategoriesSnapshot
	// Refetch запускает перезагрузку в фоне; канал закрывается по её завершении, ждать его не обязательно.
	Refetch() <-chan struct{}
	// Retry запускает перезагрузку, если никакая загрузка сейчас не идёт.
	Retry() <-chan struct{}
	// Settled закрывается, когда завершится последняя запущенная загрузка.
	Settled() <-chan struct{}
}

// Submitter выполняет создание сущности в бэкенде и сообщает явный результат.
type Submitter interface {
	HandleCreate(ctx context.Context, req *CreateReq) SubmitResult
}

// SubmissionJournal записывает успешные отправки.
type SubmissionJournal interface {
	Record(ctx context.Context, record *SubmissionRecord) error
}
