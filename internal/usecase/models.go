package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// Тексты, которые видит пользователь страницы добавления.
const (
	TitleAdd       = "Add"
	TitleError     = "Error"
	HeadingAdd     = "Add product or category"
	MsgLoadFailed  = "Something went wrong!"
	MsgRequestFail = "Something went wrong!"

	MsgProductAdded  = "Product added!"
	MsgCategoryAdded = "Category added!"
)

// SUBMISSION

// ResultKind — исход отправки формы
type ResultKind string

const (
	ResultOK               ResultKind = "ok"
	ResultValidationFailed ResultKind = "validation_failed"
	ResultRequestFailed    ResultKind = "request_failed"
)

// SubmitResult — явный результат отправки формы вместо общего cooldown-состояния.
type SubmitResult struct {
	Kind    ResultKind
	Message string
}

// Variant переводит исход отправки в оформление баннера.
func (r SubmitResult) Variant() domain.Variant {
	if r.Kind == ResultOK {
		return domain.VariantSuccess
	}

	return domain.VariantDanger
}

func (r SubmitResult) OK() bool {
	return r.Kind == ResultOK
}

// CreateReq — запрос к сервису отправки: путь, тело, сообщение об успехе и колбэк завершения.
type CreateReq struct {
	Path       string
	Body       any
	SuccessMsg string
	EventType  OutboxEventType
	OnSuccess  func(ctx context.Context) // вызывается ровно один раз и только при успехе
}

// ProductCreateBody — тело POST /ajax/{account}/products
type ProductCreateBody struct {
	Name         string      `json:"name"`
	RecipeAmount json.Number `json:"recipe_amount"`
	Type         string      `json:"type"`
	Status       string      `json:"status"`
	MeasureType  string      `json:"measure_type"`
	CategoryID   int64       `json:"category_id"`
	TaxID        int64       `json:"tax_id"`
}

// CategoryCreateBody — тело POST /ajax/{account}/product_categories
type CategoryCreateBody struct {
	Name string `json:"name"`
}

// CATEGORIES

// CategoryStatus — состояние загрузки списка категорий
type CategoryStatus string

const (
	CategoriesLoading CategoryStatus = "loading"
	CategoriesError   CategoryStatus = "error"
	CategoriesReady   CategoryStatus = "ready"
)

// CategoriesSnapshot — согласованный срез состояния источника категорий.
// Data заполняется только после завершения хотя бы одной загрузки.
type CategoriesSnapshot struct {
	Status    CategoryStatus
	Data      domain.Categories
	Err       error
	UpdatedAt time.Time
}

// PAGE

// PageStatus — какой вид страницы показывать
type PageStatus string

const (
	PageLoading PageStatus = "loading"
	PageError   PageStatus = "error"
	PageReady   PageStatus = "ready"
)

// PageView — всё, что нужно шаблону страницы добавления.
type PageView struct {
	Status         PageStatus
	Title          string
	Heading        string
	ErrorMessage   string
	Categories     domain.Categories
	Product        domain.ProductForm
	Category       domain.CategoryForm
	Alert          *domain.Alert
	AlertRemaining time.Duration
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "PENDING"
	Processing OutboxStatus = "PROCESSING"
	Processed  OutboxStatus = "PROCESSED"
)

type OutboxEventType string

const (
	ProductCreated  OutboxEventType = "product.created"
	CategoryCreated OutboxEventType = "category.created"
)

// OutboxEvent — запись журнала успешных отправок, ожидающая публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	Path        string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SubmissionRecord — данные успешной отправки для журнала.
type SubmissionRecord struct {
	EventID    string
	EventType  OutboxEventType
	Path       string
	Body       any
	OccurredAt time.Time
}

// WriteRawMessageReq — сообщение для публикации в брокер.
type WriteRawMessageReq struct {
	Key       string
	EventType OutboxEventType
	Payload   []byte
}

// MAPPERS

func NewProductCreateBody(d *domain.ProductDraft) *ProductCreateBody {
	return &ProductCreateBody{
		Name:         d.Name,
		RecipeAmount: json.Number(d.RecipeAmount.String()),
		Type:         string(d.Type),
		Status:       string(d.Status),
		MeasureType:  string(d.MeasureType),
		CategoryID:   d.CategoryID,
		TaxID:        d.TaxID,
	}
}

func NewCategoryCreateBody(d *domain.CategoryDraft) *CategoryCreateBody {
	return &CategoryCreateBody{Name: d.Name}
}

func NewOKResult(msg string) SubmitResult {
	return SubmitResult{Kind: ResultOK, Message: msg}
}

func NewValidationFailedResult(msg string) SubmitResult {
	return SubmitResult{Kind: ResultValidationFailed, Message: msg}
}

func NewRequestFailedResult(msg string) SubmitResult {
	return SubmitResult{Kind: ResultRequestFailed, Message: msg}
}

func NewWriteRawMessageReq(key string, eventType OutboxEventType, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventType: eventType,
		Payload:   payload,
	}
}
