package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Material is a raw ingredient tracked per branch, measured in its own
// unit (kg, l, box). Quantity never goes below zero.
type Material struct {
	ID          uuid.UUID  `json:"id"`
	Branch      string     `json:"branch"`
	Name        string     `json:"name"`
	Unit        string     `json:"unit"`
	Quantity    float64    `json:"quantity"`
	MinQuantity float64    `json:"min_quantity"`
	UnitPrice   int64      `json:"unit_price"` // VND per unit
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LowStock reports whether the material has fallen to or below its
// reorder threshold.
func (m *Material) LowStock() bool {
	return m.MinQuantity > 0 && m.Quantity <= m.MinQuantity
}

// StockMove records one adjustment to a material's quantity.
type StockMove struct {
	ID         uuid.UUID `json:"id"`
	MaterialID uuid.UUID `json:"material_id"`
	Delta      float64   `json:"delta"` // positive for stock in, negative for out
	Reason     string    `json:"reason,omitempty"`
	EmployeeID string    `json:"employee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateMaterialRequest struct {
	Name        string     `json:"name"`
	Unit        string     `json:"unit"`
	Quantity    float64    `json:"quantity"`
	MinQuantity float64    `json:"min_quantity"`
	UnitPrice   int64      `json:"unit_price"`
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
}

type UpdateMaterialRequest struct {
	Name        string     `json:"name,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	MinQuantity *float64   `json:"min_quantity,omitempty"`
	UnitPrice   *int64     `json:"unit_price,omitempty"`
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

type AdjustStockRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason,omitempty"`
}
