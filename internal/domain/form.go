package domain

// ProductForm — состояние формы добавления продукта.
type ProductForm struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"` // значение выбранной опции select, NoCategory для плейсхолдера
}

// Reset очищает имя и возвращает select на плейсхолдер.
func (f *ProductForm) Reset() {
	f.Name = ""
	f.CategoryID = NoCategory
}

// CategoryForm — состояние формы добавления категории.
type CategoryForm struct {
	Name string `json:"name"`
}

func (f *CategoryForm) Reset() {
	f.Name = ""
}
