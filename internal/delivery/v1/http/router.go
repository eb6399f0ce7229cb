package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/catalog-admin/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// RouterDeps — всё, что нужно маршрутам страницы и API
type RouterDeps struct {
	PageUC       usecase.AddPageUC
	Categories   usecase.CategorySource
	Renderer     *Renderer
	PublicURL    string
	SessionTTL   time.Duration
	CookieSecure bool
	RefetchWait  time.Duration // сколько отправка категории ждёт перезагрузки списка перед редиректом
}

func (r *Router) Init(deps RouterDeps) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Recoverer)

	apiHandler := NewAPIHandler(deps.PageUC, deps.Categories, r.logger)

	r.router.Get("/healthz", apiHandler.healthz)
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(deps.PublicURL+"/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Group(func(page chi.Router) {
		page.Use(SessionMiddleware(deps.SessionTTL, deps.CookieSecure))
		registerPageRoutes(page, NewPageHandler(deps.PageUC, deps.Categories, deps.Renderer, deps.RefetchWait, r.logger))
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerAPIRoutes(v1, apiHandler)
	})
}

func registerPageRoutes(router chi.Router, pageHandler *PageHandler) {
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, AddPath, http.StatusFound)
	})
	router.Route(AddPath, func(add chi.Router) {
		add.Get("/", pageHandler.showAdd)
		add.Post("/product", pageHandler.submitProduct)
		add.Post("/category", pageHandler.submitCategory)
	})
}

func registerAPIRoutes(router chi.Router, apiHandler *APIHandler) {
	router.Get("/categories", apiHandler.listCategories)
	router.Post("/categories", apiHandler.createCategory)
	router.Post("/products", apiHandler.createProduct)
}

// requestLogger пишет строку лога на каждый запрос
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s -> %d (%s) req_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}
