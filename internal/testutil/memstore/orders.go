package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type orderRepo struct{ s *Store }

// Orders repositorio de pedidos.
func (s *Store) Orders() repository.OrderRepository { return orderRepo{s} }

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("orders.create"); err != nil {
		return err
	}
	if r.s.sectorMissing(o.SectorID) {
		return errSectorFK
	}
	cp := *o
	cp.Items = nil
	r.s.orders[o.ID] = cp
	return nil
}

func (r orderRepo) CreateItems(_ context.Context, items []entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("orders.create_items"); err != nil {
		return err
	}
	for _, it := range items {
		r.s.items[it.OrderID] = append(append([]entity.OrderItem(nil), r.s.items[it.OrderID]...), it)
	}
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	r.s.joinOrder(&o, true)
	return &o, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r orderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("orders.update_status"); err != nil {
		return err
	}
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return nil
	}
	stored.Status = o.Status
	stored.UpdatedAt = o.UpdatedAt
	stored.DeliveredAt = o.DeliveredAt
	stored.DeliveredBy = o.DeliveredBy
	r.s.orders[o.ID] = stored
	return nil
}

func (r orderRepo) List(_ context.Context, q repository.OrderQuery) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("orders.list"); err != nil {
		return nil, err
	}
	var out []*entity.Order
	for _, o := range r.s.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.SectorID != "" && o.SectorID != q.SectorID {
			continue
		}
		if q.From != nil && o.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && o.CreatedAt.After(*q.To) {
			continue
		}
		cp := o
		r.s.joinOrder(&cp, q.WithItems)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r orderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("orders.delete"); err != nil {
		return err
	}
	delete(r.s.orders, id)
	delete(r.s.items, id)
	return nil
}

// joinOrder requiere s.mu tomado.
func (s *Store) joinOrder(o *entity.Order, withItems bool) {
	if sec, ok := s.sectors[o.SectorID]; ok {
		o.SectorName = sec.Name
	}
	if u, ok := s.users[o.RequestedBy]; ok {
		o.RequesterName = u.FullName
	}
	if u, ok := s.users[o.DeliveredBy]; ok {
		o.DeliveredByName = u.FullName
	}
	o.Items = nil
	if !withItems {
		return
	}
	for _, it := range s.items[o.ID] {
		if p, ok := s.products[it.ProductID]; ok {
			it.ProductName = p.Name
			it.ProductUnit = p.Unit
		}
		o.Items = append(o.Items, it)
	}
}

func sortByName(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}
