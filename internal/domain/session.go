package domain

// PageSession — состояние страницы добавления для одного посетителя: обе формы и баннер.
type PageSession struct {
	Product  ProductForm  `json:"product"`
	Category CategoryForm `json:"category"`
	Alert    *Alert       `json:"alert,omitempty"`
}
