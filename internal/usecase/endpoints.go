package usecase

import "fmt"

// Endpoints строит пути REST API каталога относительно API_URL.
type Endpoints struct {
	accountID string
}

func NewEndpoints(accountID string) Endpoints {
	return Endpoints{accountID: accountID}
}

func (e Endpoints) ProductsPath() string {
	return fmt.Sprintf("/ajax/%s/products", e.accountID)
}

func (e Endpoints) CategoriesPath() string {
	return fmt.Sprintf("/ajax/%s/product_categories", e.accountID)
}
