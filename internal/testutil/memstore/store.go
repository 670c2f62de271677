// Package memstore implementa los puertos de persistencia en memoria para pruebas.
// Las transacciones se serializan y se revierten restaurando una copia del estado.
package memstore

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ErrInjected falla simulada de la base de datos.
var ErrInjected = errors.New("memstore: falla inyectada")

// errSectorFK reproduce lo que devuelven los repositorios Postgres ante una FK de sector rota.
var errSectorFK = domain.Invalid("sector_id", "setor inexistente")

// Store estado compartido por todos los repositorios.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products  map[string]entity.Product
	movements map[string]entity.StockMovement
	orders    map[string]entity.Order
	items     map[string][]entity.OrderItem
	users     map[string]entity.User
	roles     map[string][]string
	sectors   map[string]entity.Sector
	printers  map[string]entity.Printer

	fail map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products:  map[string]entity.Product{},
		movements: map[string]entity.StockMovement{},
		orders:    map[string]entity.Order{},
		items:     map[string][]entity.OrderItem{},
		users:     map[string]entity.User{},
		roles:     map[string][]string{},
		sectors:   map[string]entity.Sector{},
		printers:  map[string]entity.Printer{},
		fail:      map[string]error{},
	}
}

// FailOn hace que la operación op ("movements.create", "products.set_stock", ...) falle con err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// sectorMissing debe llamarse con s.mu tomado. Un id vacío es NULL y no se verifica.
func (s *Store) sectorMissing(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s.sectors[id]
	return !ok
}

// check debe llamarse con s.mu tomado.
func (s *Store) check(op string) error {
	return s.fail[op]
}

type snapshot struct {
	products  map[string]entity.Product
	movements map[string]entity.StockMovement
	orders    map[string]entity.Order
	items     map[string][]entity.OrderItem
	users     map[string]entity.User
	roles     map[string][]string
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		products:  maps.Clone(s.products),
		movements: maps.Clone(s.movements),
		orders:    maps.Clone(s.orders),
		items:     maps.Clone(s.items),
		users:     maps.Clone(s.users),
		roles:     maps.Clone(s.roles),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.movements = snap.movements
	s.orders = snap.orders
	s.items = snap.items
	s.users = snap.users
	s.roles = snap.roles
}

// Repos repositorios del store (fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Products:  s.Products(),
		Movements: s.Movements(),
		Orders:    s.Orders(),
		Users:     s.Users(),
		Sectors:   s.Sectors(),
	}
}

// Run ejecuta fn de forma serializada; si fn falla el estado vuelve al de antes.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

var _ repository.TxRunner = (*Store)(nil)

// Inspección directa para las aserciones de las pruebas.

// Product devuelve la fila almacenada, o false si no existe.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// MovementCount cantidad de movimientos (incluidos los eliminados).
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// MovementsOf movimientos de un producto.
func (s *Store) MovementsOf(productID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// UserCount cantidad de cuentas.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
