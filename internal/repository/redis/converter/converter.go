package converter

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
)

// CategoryConverter переводит список категорий в модель кэша и обратно
type CategoryConverter interface {
	ToRedisModel(categories domain.Categories, cachedAt time.Time) *CategoryListRedisModel
	ToDomain(model *CategoryListRedisModel) domain.Categories
}

// SessionConverter переводит состояние страницы в модель хранения и обратно
type SessionConverter interface {
	ToRedisModel(session *domain.PageSession) *PageSessionRedisModel
	ToDomain(model *PageSessionRedisModel) *domain.PageSession
}

type categoryConverter struct{}

func NewCategoryConverter() CategoryConverter {
	return categoryConverter{}
}

func (categoryConverter) ToRedisModel(categories domain.Categories, cachedAt time.Time) *CategoryListRedisModel {
	items := make([]CategoryRedisModel, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryRedisModel{ID: c.ID, Name: c.Name})
	}

	return &CategoryListRedisModel{Items: items, CachedAt: cachedAt}
}

func (categoryConverter) ToDomain(model *CategoryListRedisModel) domain.Categories {
	categories := make(domain.Categories, 0, len(model.Items))
	for _, item := range model.Items {
		categories = append(categories, domain.NewCategory(item.ID, item.Name))
	}

	return categories
}

type sessionConverter struct{}

func NewSessionConverter() SessionConverter {
	return sessionConverter{}
}

func (sessionConverter) ToRedisModel(session *domain.PageSession) *PageSessionRedisModel {
	model := &PageSessionRedisModel{
		ProductName:       session.Product.Name,
		ProductCategoryID: session.Product.CategoryID,
		CategoryName:      session.Category.Name,
	}
	if session.Alert != nil {
		model.Alert = &AlertRedisModel{
			Message:   session.Alert.Message,
			Variant:   string(session.Alert.Variant),
			ExpiresAt: session.Alert.ExpiresAt,
		}
	}

	return model
}

func (sessionConverter) ToDomain(model *PageSessionRedisModel) *domain.PageSession {
	session := &domain.PageSession{
		Product: domain.ProductForm{
			Name:       model.ProductName,
			CategoryID: model.ProductCategoryID,
		},
		Category: domain.CategoryForm{Name: model.CategoryName},
	}
	if model.Alert != nil {
		session.Alert = &domain.Alert{
			Message:   model.Alert.Message,
			Variant:   domain.Variant(model.Alert.Variant),
			ExpiresAt: model.Alert.ExpiresAt,
		}
	}

	return session
}
