package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// SectorRepository puerto de persistencia para sectores.
type SectorRepository interface {
	Create(ctx context.Context, sector *entity.Sector) error
	GetByID(ctx context.Context, id string) (*entity.Sector, error)
	Update(ctx context.Context, sector *entity.Sector) error
	List(ctx context.Context) ([]*entity.Sector, error)
	Delete(ctx context.Context, id string) error
}
