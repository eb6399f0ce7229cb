package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type fakePageUC struct {
	view   *usecase.PageView
	result usecase.SubmitResult

	sessionIDs    []string
	productForms  []domain.ProductForm
	categoryForms []domain.CategoryForm
}

func (f *fakePageUC) View(_ context.Context, sessionID string) *usecase.PageView {
	f.sessionIDs = append(f.sessionIDs, sessionID)
	return f.view
}

func (f *fakePageUC) SubmitProduct(_ context.Context, sessionID string, form domain.ProductForm) usecase.SubmitResult {
	f.sessionIDs = append(f.sessionIDs, sessionID)
	f.productForms = append(f.productForms, form)
	return f.result
}

func (f *fakePageUC) SubmitCategory(_ context.Context, sessionID string, form domain.CategoryForm) usecase.SubmitResult {
	f.sessionIDs = append(f.sessionIDs, sessionID)
	f.categoryForms = append(f.categoryForms, form)
	return f.result
}

type fakeSource struct {
	snap    usecase.CategoriesSnapshot
	settled chan struct{} // nil означает, что загрузок нет
}

func (f *fakeSource) Snapshot() usecase.CategoriesSnapshot { return f.snap }

func (f *fakeSource) Refetch() <-chan struct{} { return closed() }

func (f *fakeSource) Retry() <-chan struct{} { return closed() }

func (f *fakeSource) Settled() <-chan struct{} {
	if f.settled != nil {
		return f.settled
	}
	return closed()
}

func closed() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

func newTestRouter(t *testing.T, uc *fakePageUC, source *fakeSource) http.Handler {
	t.Helper()

	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.NewLogrusLoggerWithWriter(io.Discard, "error")).Init(RouterDeps{
		PageUC:     uc,
		Categories: source,
		Renderer:   renderer,
		PublicURL:   "http://localhost:8080",
		SessionTTL:  time.Hour,
		RefetchWait: 50 * time.Millisecond,
	})

	return mux
}

func readyView() *usecase.PageView {
	return &usecase.PageView{
		Status:     usecase.PageReady,
		Title:      usecase.TitleAdd,
		Heading:    usecase.HeadingAdd,
		Categories: domain.Categories{domain.NewCategory(1, "Fruit"), domain.NewCategory(2, "Dairy")},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestShowAddLoading(t *testing.T) {
	h := newTestRouter(t, &fakePageUC{view: &usecase.PageView{Status: usecase.PageLoading}}, &fakeSource{})

	rec := get(t, h, "/add")
	body := rec.Body.String()

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(body, "spinner-border") || !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatalf("loading indicator missing:\n%s", body)
	}
	for _, unexpected := range []string{"<form", "Something went wrong!", `role="alert"`} {
		if strings.Contains(body, unexpected) {
			t.Errorf("loading page must not contain %q", unexpected)
		}
	}
}

func TestShowAddError(t *testing.T) {
	view := &usecase.PageView{Status: usecase.PageError, Title: usecase.TitleError, ErrorMessage: usecase.MsgLoadFailed}
	h := newTestRouter(t, &fakePageUC{view: view}, &fakeSource{})

	body := get(t, h, "/add").Body.String()

	if !strings.Contains(body, "<title>Error</title>") || !strings.Contains(body, "Something went wrong!") {
		t.Fatalf("error page:\n%s", body)
	}
	if strings.Contains(body, "<form") || strings.Contains(body, "Add product or category") {
		t.Fatal("error page must not render forms")
	}
}

func TestShowAddReady(t *testing.T) {
	view := readyView()
	view.Product = domain.ProductForm{Name: "Apple", CategoryID: "2"}
	view.Alert = &domain.Alert{Message: "Please select category!", Variant: domain.VariantDanger}
	view.AlertRemaining = 1500 * time.Millisecond
	h := newTestRouter(t, &fakePageUC{view: view}, &fakeSource{})

	body := get(t, h, "/add").Body.String()

	checks := []string{
		"<title>Add</title>",
		`<h1 class="mb-5">Add product or category</h1>`,
		`action="/add/product"`,
		`action="/add/category"`,
		`<option value="" >Choose category</option>`,
		`<option value="1" >Fruit</option>`,
		`<option value="2" selected>Dairy</option>`,
		`value="Apple"`,
		"alert-danger",
		`data-hide-after="1500"`,
		"Please select category!",
	}
	for _, want := range checks {
		if !strings.Contains(body, want) {
			t.Errorf("page must contain %q", want)
		}
	}
}

func TestRootRedirectsToAdd(t *testing.T) {
	h := newTestRouter(t, &fakePageUC{view: readyView()}, &fakeSource{})

	rec := get(t, h, "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/add" {
		t.Fatalf("status = %d, location = %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSessionCookie(t *testing.T) {
	uc := &fakePageUC{view: readyView()}
	h := newTestRouter(t, uc, &fakeSource{})

	rec := get(t, h, "/add")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value == "" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	issued := cookies[0].Value

	req := httptest.NewRequest(http.MethodGet, "/add", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issued})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(uc.sessionIDs) != 2 || uc.sessionIDs[0] != issued || uc.sessionIDs[1] != issued {
		t.Fatalf("session ids = %v", uc.sessionIDs)
	}

	forged := httptest.NewRequest(http.MethodGet, "/add", nil)
	forged.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), forged)

	if uc.sessionIDs[2] == "../../etc" || uc.sessionIDs[2] == "" {
		t.Fatalf("invalid cookie must be replaced, got %q", uc.sessionIDs[2])
	}
}

func TestSubmitProductForm(t *testing.T) {
	uc := &fakePageUC{result: usecase.NewOKResult(usecase.MsgProductAdded)}
	h := newTestRouter(t, uc, &fakeSource{})

	req := httptest.NewRequest(http.MethodPost, "/add/product", strings.NewReader("name=Apple&category_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/add" {
		t.Fatalf("status = %d, location = %s", rec.Code, rec.Header().Get("Location"))
	}
	if len(uc.productForms) != 1 || uc.productForms[0] != (domain.ProductForm{Name: "Apple", CategoryID: "1"}) {
		t.Fatalf("forms = %+v", uc.productForms)
	}
	if uc.sessionIDs[0] == "" {
		t.Fatal("page submissions must carry a session id")
	}
}

func TestSubmitCategoryFormRedirectsWhenRefetchIsSlow(t *testing.T) {
	uc := &fakePageUC{result: usecase.NewOKResult(usecase.MsgCategoryAdded)}
	h := newTestRouter(t, uc, &fakeSource{settled: make(chan struct{})})

	req := httptest.NewRequest(http.MethodPost, "/add/category", strings.NewReader("name=Dairy"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	start := time.Now()
	h.ServeHTTP(rec, req)
	elapsed := time.Since(start)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if elapsed < 50*time.Millisecond || elapsed > time.Second {
		t.Fatalf("redirect must wait for the refetch up to the limit, waited %v", elapsed)
	}
}

func TestSubmitCategoryFormKeepsWhitespace(t *testing.T) {
	uc := &fakePageUC{result: usecase.NewOKResult(usecase.MsgCategoryAdded)}
	h := newTestRouter(t, uc, &fakeSource{})

	req := httptest.NewRequest(http.MethodPost, "/add/category", strings.NewReader("name=+Dairy+"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(uc.categoryForms) != 1 || uc.categoryForms[0].Name != " Dairy " {
		t.Fatalf("forms = %+v", uc.categoryForms)
	}
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPICreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     usecase.SubmitResult
		wantStatus int
		wantForm   domain.ProductForm
	}{
		{
			name:       "created",
			body:       `{"name":"Apple","category_id":1}`,
			result:     usecase.NewOKResult(usecase.MsgProductAdded),
			wantStatus: http.StatusCreated,
			wantForm:   domain.ProductForm{Name: "Apple", CategoryID: "1"},
		},
		{
			name:       "no category",
			body:       `{"name":"Apple"}`,
			result:     usecase.NewValidationFailedResult("Please select category!"),
			wantStatus: http.StatusUnprocessableEntity,
			wantForm:   domain.ProductForm{Name: "Apple", CategoryID: domain.NoCategory},
		},
		{
			name:       "backend failure",
			body:       `{"name":"Apple","category_id":1}`,
			result:     usecase.NewRequestFailedResult(usecase.MsgRequestFail),
			wantStatus: http.StatusBadGateway,
			wantForm:   domain.ProductForm{Name: "Apple", CategoryID: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakePageUC{result: tt.result}
			h := newTestRouter(t, uc, &fakeSource{})

			rec := postJSON(t, h, "/api/v1/products", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d", rec.Code)
			}
			if len(uc.productForms) != 1 || uc.productForms[0] != tt.wantForm {
				t.Fatalf("forms = %+v", uc.productForms)
			}
			if uc.sessionIDs[0] != "" {
				t.Fatalf("API calls are stateless, got session %q", uc.sessionIDs[0])
			}

			var res SubmitResponse
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Kind != string(tt.result.Kind) || res.Message != tt.result.Message || res.Variant != string(tt.result.Variant()) {
				t.Fatalf("response = %+v", res)
			}
		})
	}
}

func TestAPICreateCategory(t *testing.T) {
	uc := &fakePageUC{result: usecase.NewOKResult(usecase.MsgCategoryAdded)}
	h := newTestRouter(t, uc, &fakeSource{})

	rec := postJSON(t, h, "/api/v1/categories", `{"name":"Dairy"}`)

	if rec.Code != http.StatusCreated || len(uc.categoryForms) != 1 || uc.categoryForms[0].Name != "Dairy" {
		t.Fatalf("status = %d, forms = %+v", rec.Code, uc.categoryForms)
	}
}

func TestAPIBadJSON(t *testing.T) {
	uc := &fakePageUC{}
	h := newTestRouter(t, uc, &fakeSource{})

	for _, body := range []string{`{"name":`, `{"name":"x","price":1}`} {
		rec := postJSON(t, h, "/api/v1/products", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d", body, rec.Code)
		}
	}
	if len(uc.productForms) != 0 {
		t.Fatal("malformed requests must not reach the use case")
	}
}

func TestAPIListCategories(t *testing.T) {
	tests := []struct {
		name       string
		snap       usecase.CategoriesSnapshot
		wantStatus int
		wantBody   string
	}{
		{
			name:       "loading",
			snap:       usecase.CategoriesSnapshot{Status: usecase.CategoriesLoading},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"loading","categories":[]}`,
		},
		{
			name:       "error",
			snap:       usecase.CategoriesSnapshot{Status: usecase.CategoriesError},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"code":502,"message":"Something went wrong!"}`,
		},
		{
			name: "ready",
			snap: usecase.CategoriesSnapshot{
				Status: usecase.CategoriesReady,
				Data:   domain.Categories{domain.NewCategory(1, "Fruit")},
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","categories":[{"id":1,"name":"Fruit"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &fakePageUC{}, &fakeSource{snap: tt.snap})

			rec := get(t, h, "/api/v1/categories")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Fatalf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, &fakePageUC{}, &fakeSource{snap: usecase.CategoriesSnapshot{Status: usecase.CategoriesReady}})

	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"categories":"ready"`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
