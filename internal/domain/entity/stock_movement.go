package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de estoque.
const (
	MovementTypeEntrada = "entrada" // suma al stock
	MovementTypeSaida   = "saida"   // resta del stock
	MovementTypeAjuste  = "ajuste"  // fija el stock en un valor absoluto
)

// Categorías de movimiento.
const (
	MovementCategoryProduto = "produto"
	MovementCategorySistema = "sistema"
)

// StockMovement registro inmutable del libro de estoque.
// Quantity siempre es el valor absoluto aplicado; PreviousStock y NewStock son snapshots.
// La eliminación es lógica (DeletedAt/DeletedBy/DeletionReason) y nunca revierte el efecto en el producto.
type StockMovement struct {
	ID             string
	ProductID      string // vacío para categoría sistema
	Category       string
	Type           string
	Quantity       decimal.Decimal
	PreviousStock  decimal.Decimal
	NewStock       decimal.Decimal
	Notes          string
	PerformedBy    string
	SectorID       string // opcional
	CreatedAt      time.Time
	DeletedAt      *time.Time
	DeletedBy      string
	DeletionReason string

	// Datos de lectura (join) para listados y ordenación.
	ProductName     string
	ProductUnit     string
	SectorName      string
	PerformedByName string
}

// IsDeleted indica si el movimiento fue eliminado lógicamente.
func (m *StockMovement) IsDeleted() bool { return m.DeletedAt != nil }

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSaida, MovementTypeAjuste:
		return true
	}
	return false
}
