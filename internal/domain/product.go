package domain

import "github.com/shopspring/decimal"

// ProductType — тип продукта в каталоге
type ProductType string

// ProductStatus — статус продукта в каталоге
type ProductStatus string

// MeasureType — единица измерения продукта
type MeasureType string

const (
	ProductTypeBasic     ProductType   = "BASIC"
	ProductStatusEnabled ProductStatus = "ENABLED"
	MeasureKilogram      MeasureType   = "KILOGRAM"

	// DefaultTaxID — налоговая ставка, с которой создаются продукты со страницы добавления
	DefaultTaxID int64 = 1
)

// DefaultRecipeAmount — количество продукта в рецептуре по умолчанию (1 кг)
var DefaultRecipeAmount = decimal.NewFromInt(1)

// ProductDraft описывает продукт, который отправляется в бэкенд на создание.
// Все поля, кроме Name и CategoryID, фиксированы для страницы добавления.
type ProductDraft struct {
	Name         string
	RecipeAmount decimal.Decimal
	Type         ProductType
	Status       ProductStatus
	MeasureType  MeasureType
	CategoryID   int64
	TaxID        int64
}

// NewProductDraft собирает черновик продукта. Имя передаётся как есть, без обрезки пробелов.
func NewProductDraft(name string, categoryID int64) *ProductDraft {
	return &ProductDraft{
		Name:         name,
		RecipeAmount: DefaultRecipeAmount,
		Type:         ProductTypeBasic,
		Status:       ProductStatusEnabled,
		MeasureType:  MeasureKilogram,
		CategoryID:   categoryID,
		TaxID:        DefaultTaxID,
	}
}

// CategoryDraft описывает категорию, которая отправляется в бэкенд на создание.
type CategoryDraft struct {
	Name string
}

func NewCategoryDraft(name string) *CategoryDraft {
	return &CategoryDraft{Name: name}
}
