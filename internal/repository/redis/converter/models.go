package converter

import "time"

type CategoryRedisModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryListRedisModel struct {
	Items    []CategoryRedisModel `json:"items"`
	CachedAt time.Time            `json:"cached_at"`
}

type AlertRedisModel struct {
	Message   string    `json:"message"`
	Variant   string    `json:"variant"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PageSessionRedisModel struct {
	ProductName       string           `json:"product_name"`
	ProductCategoryID string           `json:"product_category_id"`
	CategoryName      string           `json:"category_name"`
	Alert             *AlertRedisModel `json:"alert,omitempty"`
}
