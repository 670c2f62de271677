package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// PrinterRepository puerto de persistencia para impresoras.
type PrinterRepository interface {
	Create(ctx context.Context, printer *entity.Printer) error
	GetByID(ctx context.Context, id string) (*entity.Printer, error)
	Update(ctx context.Context, printer *entity.Printer) error
	List(ctx context.Context, activeOnly bool) ([]*entity.Printer, error)
	Delete(ctx context.Context, id string) error
}
