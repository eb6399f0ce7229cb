package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// CatalogBackend — REST API каталога.
type CatalogBackend interface {
	ListCategories(ctx context.Context, path string) (domain.Categories, error)
	Create(ctx context.Context, path string, body any) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует запись журнала в формат сообщения брокера.
type EventEncoder interface {
	Encode(record *SubmissionRecord) ([]byte, error)
}
