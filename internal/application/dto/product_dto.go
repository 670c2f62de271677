package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. CurrentStock > 0 genera una entrada inicial.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// UpdateProductRequest edición parcial. Un CurrentStock distinto al almacenado genera un movimiento de conciliación.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Unit         *string          `json:"unit"`
	Category     *string          `json:"category"`
	CurrentStock *decimal.Decimal `json:"current_stock"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Category     string          `json:"category"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Stock    string `query:"stock"` // low | normal
}
