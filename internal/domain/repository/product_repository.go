package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Filtros de stock para listados de productos.
const (
	StockFilterLow    = "low"
	StockFilterNormal = "normal"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Search   string // nombre o descripción, sin distinguir mayúsculas
	Category string
	Stock    string // "", low, normal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// CurrentStock solo se modifica con SetStock, invocado exclusivamente por el libro de estoque.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetStock(ctx context.Context, productID string, stock decimal.Decimal, at time.Time) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
