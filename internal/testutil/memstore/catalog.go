package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type sectorRepo struct{ s *Store }

// Sectors repositorio de sectores.
func (s *Store) Sectors() repository.SectorRepository { return sectorRepo{s} }

func (r sectorRepo) Create(_ context.Context, sec *entity.Sector) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("sectors.create"); err != nil {
		return err
	}
	r.s.sectors[sec.ID] = *sec
	return nil
}

func (r sectorRepo) GetByID(_ context.Context, id string) (*entity.Sector, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.sectors[id]
	if !ok {
		return nil, nil
	}
	return &sec, nil
}

func (r sectorRepo) Update(_ context.Context, sec *entity.Sector) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("sectors.update"); err != nil {
		return err
	}
	r.s.sectors[sec.ID] = *sec
	return nil
}

func (r sectorRepo) List(_ context.Context) ([]*entity.Sector, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Sector, 0, len(r.s.sectors))
	for _, sec := range r.s.sectors {
		cp := sec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r sectorRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("sectors.delete"); err != nil {
		return err
	}
	delete(r.s.sectors, id)
	return nil
}

type printerRepo struct{ s *Store }

// Printers repositorio de impresoras.
func (s *Store) Printers() repository.PrinterRepository { return printerRepo{s} }

func (r printerRepo) Create(_ context.Context, p *entity.Printer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("printers.create"); err != nil {
		return err
	}
	r.s.printers[p.ID] = *p
	return nil
}

func (r printerRepo) GetByID(_ context.Context, id string) (*entity.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.printers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r printerRepo) Update(_ context.Context, p *entity.Printer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("printers.update"); err != nil {
		return err
	}
	r.s.printers[p.ID] = *p
	return nil
}

func (r printerRepo) List(_ context.Context, activeOnly bool) ([]*entity.Printer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("printers.list"); err != nil {
		return nil, err
	}
	var out []*entity.Printer
	for _, p := range r.s.printers {
		if activeOnly && !p.IsActive {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r printerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("printers.delete"); err != nil {
		return err
	}
	delete(r.s.printers, id)
	return nil
}

// PutSector inserta un sector directamente.
func (s *Store) PutSector(sec entity.Sector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors[sec.ID] = sec
}

// PutProduct inserta un producto directamente (con su stock, sin movimiento).
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}
