package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// OrderQuery filtros de pedidos. WithItems carga las líneas de cada pedido.
type OrderQuery struct {
	Status    string
	SectorID  string
	From      *time.Time
	To        *time.Time
	WithItems bool
}

// OrderRepository puerto de persistencia de pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItems(ctx context.Context, items []entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, q OrderQuery) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
