package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

type APIHandler struct {
	pageUC     usecase.AddPageUC
	categories usecase.CategorySource
	logger     logger.Logger
}

func NewAPIHandler(pageUC usecase.AddPageUC, categories usecase.CategorySource, logger logger.Logger) *APIHandler {
	return &APIHandler{pageUC: pageUC, categories: categories, logger: logger}
}

// listCategories
//
//	@Summary		Список категорий
//	@Description	Текущее состояние загрузки категорий. Пока первая загрузка не завершилась, отдаётся 503
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse	"Категории загружены"
//	@Failure		502	{object}	ErrorResponse		"Загрузка не удалась"
//	@Failure		503	{object}	CategoriesResponse	"Категории ещё загружаются"
//	@Router			/categories [get]
func (a *APIHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	snap := a.categories.Snapshot()

	switch snap.Status {
	case usecase.CategoriesLoading:
		w.Header().Set("Retry-After", "1")
		WriteSuccess(w, http.StatusServiceUnavailable, toCategoriesResponse(snap.Status, nil))
	case usecase.CategoriesError:
		a.logger.Warnf("categories requested while source is failing: %v", snap.Err)
		WriteSuccess(w, http.StatusBadGateway, NewErrorResponse(http.StatusBadGateway, usecase.MsgLoadFailed))
	default:
		WriteSuccess(w, http.StatusOK, toCategoriesResponse(snap.Status, snap.Data))
	}
}

// createProduct
//
//	@Summary		Добавление продукта
//	@Description	Проверяет имя и категорию и создаёт продукт в каталоге
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Продукт"
//	@Success		201		{object}	SubmitResponse	"Продукт добавлен"
//	@Failure		400		{object}	ErrorResponse	"Некорректный JSON"
//	@Failure		422		{object}	SubmitResponse	"Ошибка валидации"
//	@Failure		502		{object}	SubmitResponse	"Бэкенд каталога вернул ошибку"
//	@Router			/products [post]
func (a *APIHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res := a.pageUC.SubmitProduct(r.Context(), "", req.ToForm())
	WriteSuccess(w, submitStatus(res.Kind), NewSubmitResponse(res))
}

// createCategory
//
//	@Summary		Добавление категории
//	@Description	Создаёт категорию и перезагружает список категорий
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		CategoryRequest	true	"Категория"
//	@Success		201			{object}	SubmitResponse	"Категория добавлена"
//	@Failure		400			{object}	ErrorResponse	"Некорректный JSON"
//	@Failure		422			{object}	SubmitResponse	"Ошибка валидации"
//	@Failure		502			{object}	SubmitResponse	"Бэкенд каталога вернул ошибку"
//	@Router			/categories [post]
func (a *APIHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res := a.pageUC.SubmitCategory(r.Context(), "", req.ToForm())
	WriteSuccess(w, submitStatus(res.Kind), NewSubmitResponse(res))
}

// healthz отвечает 200, пока процесс жив, статус категорий отдаётся для информации
func (a *APIHandler) healthz(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"categories": string(a.categories.Snapshot().Status),
	})
}

