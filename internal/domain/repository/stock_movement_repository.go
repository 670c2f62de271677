package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementQuery filtros de lectura del libro de estoque. El orden lo aplica el caso de uso.
type MovementQuery struct {
	Category       string
	SectorID       string
	ProductID      string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
}

// StockMovementRepository puerto del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// MarkDeleted marca el movimiento como eliminado; la fila se conserva para auditoría.
	MarkDeleted(ctx context.Context, id string, at time.Time, by, reason string) error
	List(ctx context.Context, q MovementQuery) ([]*entity.StockMovement, error)
}
