package models

import "encoding/json"

// Product is the client-facing shape of a products_with_stock row.
type Product struct {
	ID             int64           `json:"id"`
	Slug           string          `json:"slug"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	CategoryID     int64           `json:"categoryId"`
	Category       string          `json:"category"`
	CategoryName   string          `json:"categoryName"`
	Price          float64         `json:"price"`
	Monthly        *float64        `json:"monthly"`
	Image          string          `json:"image"`
	Badge          *string         `json:"badge"`
	Description    string          `json:"description"`
	Specifications json.RawMessage `json:"specifications"`
	AvailableStock int64           `json:"availableStock"`
}

type ProductFilters struct {
	Category string
	Search   string
}
