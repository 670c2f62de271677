package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock-movements.
// Para ajuste, Quantity es el stock objetivo.
type RegisterMovementRequest struct {
	ProductID    string          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes"`
	SectorID     string          `json:"sector_id,omitempty"`
}

// DeleteMovementRequest body para la eliminación lógica.
type DeleteMovementRequest struct {
	Reason string `json:"reason"`
}

// MovementListQuery filtros y ordenación del libro de estoque.
type MovementListQuery struct {
	Category       string `query:"category"`
	SectorID       string `query:"sector_id"`
	ProductID      string `query:"product_id"`
	StartDate      string `query:"start_date"` // YYYY-MM-DD
	EndDate        string `query:"end_date"`   // YYYY-MM-DD, inclusivo
	Sort           string `query:"sort"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name,omitempty"`
	ProductUnit     string          `json:"product_unit,omitempty"`
	Category        string          `json:"movement_category"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PreviousStock   decimal.Decimal `json:"previous_stock"`
	NewStock        decimal.Decimal `json:"new_stock"`
	Notes           string          `json:"notes"`
	PerformedBy     string          `json:"performed_by"`
	PerformedByName string          `json:"performed_by_name,omitempty"`
	SectorID        string          `json:"sector_id,omitempty"`
	SectorName      string          `json:"sector_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
	DeletedBy       string          `json:"deleted_by,omitempty"`
	DeletionReason  string          `json:"deletion_reason,omitempty"`
}
