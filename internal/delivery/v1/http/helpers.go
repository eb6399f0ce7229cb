package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// maxFormSize ограничивает тело запросов форм и JSON API
const maxFormSize = 64 << 10

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// SubmitResponse — результат отправки формы через JSON API
type SubmitResponse struct {
	Kind    string `json:"kind" example:"ok"`
	Message string `json:"message" example:"Product added!"`
	Variant string `json:"variant" example:"success"`
}

func NewSubmitResponse(res usecase.SubmitResult) *SubmitResponse {
	return &SubmitResponse{
		Kind:    string(res.Kind),
		Message: res.Message,
		Variant: string(res.Variant()),
	}
}

type CategoryResponse struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Fruit"`
}

type CategoriesResponse struct {
	Status     string             `json:"status" example:"ready"`
	Categories []CategoryResponse `json:"categories"`
}

// ProductRequest — форма продукта в JSON API. Отсутствующий category_id соответствует плейсхолдеру.
type ProductRequest struct {
	Name       string `json:"name" example:"Apple"`
	CategoryID *int64 `json:"category_id" example:"1"`
}

type CategoryRequest struct {
	Name string `json:"name" example:"Dairy"`
}

func (p *ProductRequest) ToForm() domain.ProductForm {
	form := domain.ProductForm{Name: p.Name, CategoryID: domain.NoCategory}
	if p.CategoryID != nil {
		form.CategoryID = strconv.FormatInt(*p.CategoryID, 10)
	}

	return form
}

func (c *CategoryRequest) ToForm() domain.CategoryForm {
	return domain.CategoryForm{Name: c.Name}
}

func toCategoriesResponse(status usecase.CategoryStatus, categories domain.Categories) *CategoriesResponse {
	res := &CategoriesResponse{
		Status:     string(status),
		Categories: make([]CategoryResponse, 0, len(categories)),
	}
	for _, c := range categories {
		res.Categories = append(res.Categories, CategoryResponse{ID: c.ID, Name: c.Name})
	}

	return res
}

// submitStatus сопоставляет исход отправки HTTP-статусу
func submitStatus(kind usecase.ResultKind) int {
	switch kind {
	case usecase.ResultOK:
		return http.StatusCreated
	case usecase.ResultValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}
