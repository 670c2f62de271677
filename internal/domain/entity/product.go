package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almoxarifado.
// CurrentStock solo cambia a través del libro de movimientos (Stock Ledger); MinimumStock marca el umbral de reposición.
type Product struct {
	ID           string
	Name         string
	Description  string
	Unit         string // unidad de medida: un, kg, cx, ...
	Category     string
	CurrentStock decimal.Decimal // >= 0
	MinimumStock decimal.Decimal // >= 0
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el stock actual alcanzó o bajó del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinimumStock)
}
