package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type productRepo struct{ s *Store }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("products.create"); err != nil {
		return err
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("products.update"); err != nil {
		return err
	}
	stored, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	// Update no toca el stock.
	cp := *p
	cp.CurrentStock = stored.CurrentStock
	r.s.products[p.ID] = cp
	return nil
}

func (r productRepo) SetStock(_ context.Context, id string, stock decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("products.set_stock"); err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.CurrentStock = stock
	p.UpdatedAt = at
	r.s.products[id] = p
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("products.list"); err != nil {
		return nil, err
	}
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		switch f.Stock {
		case repository.StockFilterLow:
			if !p.IsLowStock() {
				continue
			}
		case repository.StockFilterNormal:
			if p.IsLowStock() {
				continue
			}
		}
		cp := p
		out = append(out, &cp)
	}
	sortByName(out)
	return out, nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("products.delete"); err != nil {
		return err
	}
	delete(r.s.products, id)
	for mid, m := range r.s.movements {
		if m.ProductID == id {
			m.ProductID = ""
			r.s.movements[mid] = m
		}
	}
	return nil
}
