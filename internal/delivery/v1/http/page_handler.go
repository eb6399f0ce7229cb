package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

// AddPath — адрес страницы добавления
const AddPath = "/add"

type PageHandler struct {
	pageUC      usecase.AddPageUC
	categories  usecase.CategorySource
	renderer    *Renderer
	refetchWait time.Duration
	logger      logger.Logger
}

func NewPageHandler(
	pageUC usecase.AddPageUC,
	categories usecase.CategorySource,
	renderer *Renderer,
	refetchWait time.Duration,
	logger logger.Logger,
) *PageHandler {
	return &PageHandler{
		pageUC:      pageUC,
		categories:  categories,
		renderer:    renderer,
		refetchWait: refetchWait,
		logger:      logger,
	}
}

func (p *PageHandler) showAdd(w http.ResponseWriter, r *http.Request) {
	const op = "PageHandler.showAdd"

	view := p.pageUC.View(r.Context(), SessionID(r.Context()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := p.renderer.RenderAdd(w, view); err != nil {
		p.logger.Errorf(e.Wrap(op, err), "failed to render add page")
		http.Error(w, e.ErrInternalServerError.Error(), http.StatusInternalServerError)
	}
}

// submitProduct принимает форму продукта и возвращает посетителя на страницу (POST-redirect-GET)
func (p *PageHandler) submitProduct(w http.ResponseWriter, r *http.Request) {
	if !p.parseForm(w, r) {
		return
	}

	form := domain.ProductForm{
		Name:       r.PostFormValue("name"),
		CategoryID: r.PostFormValue("category_id"),
	}
	res := p.pageUC.SubmitProduct(r.Context(), SessionID(r.Context()), form)
	p.logger.Debugf("product form submitted: %s", res.Kind)

	http.Redirect(w, r, AddPath, http.StatusSeeOther)
}

func (p *PageHandler) submitCategory(w http.ResponseWriter, r *http.Request) {
	if !p.parseForm(w, r) {
		return
	}

	form := domain.CategoryForm{Name: r.PostFormValue("name")}
	res := p.pageUC.SubmitCategory(r.Context(), SessionID(r.Context()), form)
	p.logger.Debugf("category form submitted: %s", res.Kind)

	if res.OK() {
		p.awaitCategories(r)
	}

	http.Redirect(w, r, AddPath, http.StatusSeeOther)
}

// awaitCategories ждёт перезагрузки списка, чтобы страница после редиректа уже показала новую категорию.
// Ожидание ограничено refetchWait: при медленном бэкенде страница покажет старый список.
func (p *PageHandler) awaitCategories(r *http.Request) {
	timer := time.NewTimer(p.refetchWait)
	defer timer.Stop()

	select {
	case <-p.categories.Settled():
	case <-timer.C:
		p.logger.Warnf("categories refetch did not settle within %s", p.refetchWait)
	case <-r.Context().Done():
	}
}

func (p *PageHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		http.Error(w, e.ErrStatusBadRequest.Error(), http.StatusBadRequest)
		return false
	}

	return true
}
