package memstore

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type movementRepo struct{ s *Store }

// Movements repositorio del libro de movimientos.
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s} }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("movements.create"); err != nil {
		return err
	}
	if r.s.sectorMissing(m.SectorID) {
		return errSectorFK
	}
	r.s.movements[m.ID] = *m
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	r.s.join(&m)
	return &m, nil
}

func (r movementRepo) MarkDeleted(_ context.Context, id string, at time.Time, by, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("movements.mark_deleted"); err != nil {
		return err
	}
	m, ok := r.s.movements[id]
	if !ok {
		return nil
	}
	if m.DeletedAt != nil {
		return domain.ErrConflict
	}
	m.DeletedAt = &at
	m.DeletedBy = by
	m.DeletionReason = reason
	r.s.movements[id] = m
	return nil
}

func (r movementRepo) List(_ context.Context, q repository.MovementQuery) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("movements.list"); err != nil {
		return nil, err
	}
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if !q.IncludeDeleted && m.IsDeleted() {
			continue
		}
		if q.Category != "" && m.Category != q.Category {
			continue
		}
		if q.SectorID != "" && m.SectorID != q.SectorID {
			continue
		}
		if q.ProductID != "" && m.ProductID != q.ProductID {
			continue
		}
		if q.From != nil && m.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && m.CreatedAt.After(*q.To) {
			continue
		}
		cp := m
		r.s.join(&cp)
		out = append(out, &cp)
	}
	return out, nil
}

// join completa los nombres de lectura; requiere s.mu tomado.
func (s *Store) join(m *entity.StockMovement) {
	if p, ok := s.products[m.ProductID]; ok {
		m.ProductName = p.Name
		m.ProductUnit = p.Unit
	}
	if sec, ok := s.sectors[m.SectorID]; ok {
		m.SectorName = sec.Name
	}
	if u, ok := s.users[m.PerformedBy]; ok {
		m.PerformedByName = u.FullName
	}
}
