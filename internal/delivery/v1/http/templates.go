package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pageData — данные шаблона страницы добавления
type pageData struct {
	View    *usecase.PageView
	Title   string
	Loading bool
	Failed  bool
}

func newPageData(view *usecase.PageView) *pageData {
	data := &pageData{
		View:    view,
		Title:   view.Title,
		Loading: view.Status == usecase.PageLoading,
		Failed:  view.Status == usecase.PageError,
	}
	// пока идёт загрузка, заголовок документа не меняется
	if data.Loading {
		data.Title = usecase.TitleAdd
	}

	return data
}

// Renderer рендерит страницу добавления из встроенных шаблонов
type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"millis": func(d time.Duration) int64 { return d.Milliseconds() },
	}

	page, err := template.New("add").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl", "templates/add.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse add page templates: %w", err)
	}

	return &Renderer{page: page}, nil
}

// RenderAdd пишет страницу целиком или ничего, если шаблон упал
func (r *Renderer) RenderAdd(w io.Writer, view *usecase.PageView) error {
	var buf bytes.Buffer
	if err := r.page.ExecuteTemplate(&buf, "layout", newPageData(view)); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}
