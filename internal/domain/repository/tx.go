package repository

import "context"

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Orders    OrderRepository
	Users     UserRepository
	Sectors   SectorRepository
}

// TxRunner unidad de trabajo: ejecuta fn dentro de una transacción y hace Commit si fn
// retorna nil o Rollback en cualquier otro caso. Ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
