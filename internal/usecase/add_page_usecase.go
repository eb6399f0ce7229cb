package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/go-playground/validator/v10"
)

// AddPageUseCase реализует страницу добавления продукта и категории:
// показ по состоянию загрузки категорий, валидацию двух форм и их отправку.
type AddPageUseCase struct {
	categories    CategorySource
	submitter     Submitter
	sessions      SessionStore
	endpoints     Endpoints
	validate      *validator.Validate
	alertDuration time.Duration
	sessionTTL    time.Duration
	logger        logger.Logger
	now           func() time.Time
}

func NewAddPageUC(
	categories CategorySource,
	submitter Submitter,
	sessions SessionStore,
	endpoints Endpoints,
	alertDuration time.Duration,
	sessionTTL time.Duration,
	logger logger.Logger,
) *AddPageUseCase {
	return &AddPageUseCase{
		categories:    categories,
		submitter:     submitter,
		sessions:      sessions,
		endpoints:     endpoints,
		validate:      validator.New(),
		alertDuration: alertDuration,
		sessionTTL:    sessionTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// View собирает вид страницы. Пока категории грузятся, формы и баннер не показываются;
// при ошибке загрузки показывается только сообщение об ошибке.
func (a *AddPageUseCase) View(ctx context.Context, sessionID string) *PageView {
	snap := a.categories.Snapshot()

	switch snap.Status {
	case CategoriesLoading:
		return &PageView{Status: PageLoading}
	case CategoriesError:
		// каждый показ страницы с ошибкой повторяет загрузку в фоне
		a.categories.Retry()
		return &PageView{
			Status:       PageError,
			Title:        TitleError,
			ErrorMessage: MsgLoadFailed,
		}
	}

	session := a.loadSession(ctx, sessionID)
	view := &PageView{
		Status:     PageReady,
		Title:      TitleAdd,
		Heading:    HeadingAdd,
		Categories: snap.Data,
		Product:    session.Product,
		Category:   session.Category,
	}

	now := a.now()
	if session.Alert.Visible(now) {
		view.Alert = session.Alert
		view.AlertRemaining = session.Alert.Remaining(now)
	}

	return view
}

// SubmitProduct валидирует форму продукта и отправляет её в бэкенд.
func (a *AddPageUseCase) SubmitProduct(ctx context.Context, sessionID string, form domain.ProductForm) SubmitResult {
	const op = "AddPageUseCase.SubmitProduct"

	kept := form
	res := a.submitProduct(ctx, form, func(context.Context) {
		kept.Reset()
	})

	a.commit(ctx, op, sessionID, res, func(session *domain.PageSession) {
		session.Product = kept
	})

	return res
}

// SubmitCategory валидирует форму категории, отправляет её и перезагружает список категорий.
func (a *AddPageUseCase) SubmitCategory(ctx context.Context, sessionID string, form domain.CategoryForm) SubmitResult {
	const op = "AddPageUseCase.SubmitCategory"

	kept := form
	res := a.submitCategory(ctx, form, func(context.Context) {
		kept.Reset()
		// перезагрузка в фоне, новая категория появится в select продукта
		a.categories.Refetch()
	})

	a.commit(ctx, op, sessionID, res, func(session *domain.PageSession) {
		session.Category = kept
	})

	return res
}

func (a *AddPageUseCase) submitProduct(ctx context.Context, form domain.ProductForm, onSuccess func(context.Context)) SubmitResult {
	const op = "AddPageUseCase.SubmitProduct"

	if err := a.validateName(form.Name); err != nil {
		return a.rejected(op, err)
	}

	category, ok := a.categories.Snapshot().Data.Find(form.CategoryID)
	if !ok {
		return a.rejected(op, e.ErrCategoryRequired)
	}

	draft := domain.NewProductDraft(form.Name, category.ID)

	return a.submitter.HandleCreate(ctx, &CreateReq{
		Path:       a.endpoints.ProductsPath(),
		Body:       NewProductCreateBody(draft),
		SuccessMsg: MsgProductAdded,
		EventType:  ProductCreated,
		OnSuccess:  onSuccess,
	})
}

func (a *AddPageUseCase) submitCategory(ctx context.Context, form domain.CategoryForm, onSuccess func(context.Context)) SubmitResult {
	const op = "AddPageUseCase.SubmitCategory"

	if err := a.validateName(form.Name); err != nil {
		return a.rejected(op, err)
	}

	return a.submitter.HandleCreate(ctx, &CreateReq{
		Path:       a.endpoints.CategoriesPath(),
		Body:       NewCategoryCreateBody(domain.NewCategoryDraft(form.Name)),
		SuccessMsg: MsgCategoryAdded,
		EventType:  CategoryCreated,
		OnSuccess:  onSuccess,
	})
}

// validateName проверяет только непустоту: пробелы не обрезаются и проходят валидацию.
func (a *AddPageUseCase) validateName(name string) error {
	if err := a.validate.Var(name, "required"); err != nil {
		return e.ErrNameRequired
	}

	return nil
}

func (a *AddPageUseCase) rejected(op string, err error) SubmitResult {
	var vErr *e.ValidationError
	if !errors.As(err, &vErr) {
		a.logger.Errorf(e.Wrap(op, err), "unexpected validation failure")
		return NewValidationFailedResult(err.Error())
	}

	a.logger.Debugf("%s: rejected: %s", op, vErr.Msg)
	return NewValidationFailedResult(vErr.Msg)
}

// commit сохраняет в сессию баннер с результатом и форму, которой владеет эта отправка.
// Остальные поля берутся из текущего состояния, чтобы не затереть параллельную отправку другой формы.
func (a *AddPageUseCase) commit(ctx context.Context, op string, sessionID string, res SubmitResult, own func(*domain.PageSession)) {
	if sessionID == "" {
		return
	}

	alert := domain.NewAlert(res.Message, res.Variant(), a.now(), a.alertDuration)
	err := a.sessions.Update(ctx, sessionID, a.sessionTTL, func(session *domain.PageSession) {
		own(session)
		session.Alert = alert
	})
	if err != nil {
		a.logger.Warnf("failed to save page session: %v", e.Wrap(op, err))
	}
}

// loadSession возвращает сохранённое состояние или пустое. Пустой sessionID означает запрос без сессии (JSON API).
func (a *AddPageUseCase) loadSession(ctx context.Context, sessionID string) *domain.PageSession {
	const op = "AddPageUseCase.loadSession"

	if sessionID == "" {
		return &domain.PageSession{}
	}

	session, err := a.sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, e.ErrSessionNotFound) {
			a.logger.Warnf("failed to load page session: %v", e.Wrap(op, err))
		}
		return &domain.PageSession{}
	}

	return session
}
