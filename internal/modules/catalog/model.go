package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus indicates whether a product can currently be sold.
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusInactive ProductStatus = "INACTIVE"
)

// Product is a sellable item in the branch catalog.
// Prices are integer VND; the currency has no fractional unit.
type Product struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category"`
	Price       int64         `json:"price"`
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	ImageURL    string        `json:"image_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Sellable reports whether the product may be added to a cart at all.
func (p *Product) Sellable() bool {
	return p.Status == StatusActive && p.Stock > 0
}

// CreateProductRequest holds the data for creating a product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

// UpdateProductRequest holds the data for updating a product.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Status      string `json:"status,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// AdjustStockRequest changes a product's stock by a signed delta.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}
