package inventory

import (
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ToProductResponse mapea la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		Category:     p.Category,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		LowStock:     p.IsLowStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToMovementResponse mapea un movimiento a su salida HTTP.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		ProductUnit:     m.ProductUnit,
		Category:        m.Category,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		PreviousStock:   m.PreviousStock,
		NewStock:        m.NewStock,
		Notes:           m.Notes,
		PerformedBy:     m.PerformedBy,
		PerformedByName: m.PerformedByName,
		SectorID:        m.SectorID,
		SectorName:      m.SectorName,
		CreatedAt:       m.CreatedAt,
		DeletedAt:       m.DeletedAt,
		DeletedBy:       m.DeletedBy,
		DeletionReason:  m.DeletionReason,
	}
}
