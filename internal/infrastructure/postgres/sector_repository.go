package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.SectorRepository = (*SectorRepo)(nil)

// SectorRepo sectores sobre PostgreSQL.
type SectorRepo struct {
	q Querier
}

func NewSectorRepository(q Querier) *SectorRepo {
	return &SectorRepo{q: q}
}

func (r *SectorRepo) Create(ctx context.Context, s *entity.Sector) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sectors (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.Description, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: setor já existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert sector: %w", err)
	}
	return nil
}

func (r *SectorRepo) GetByID(ctx context.Context, id string) (*entity.Sector, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var s entity.Sector
	err := r.q.QueryRow(ctx, `SELECT id, name, description, created_at FROM sectors WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sector: %w", err)
	}
	return &s, nil
}

func (r *SectorRepo) Update(ctx context.Context, s *entity.Sector) error {
	_, err := r.q.Exec(ctx, `UPDATE sectors SET name = $2, description = $3 WHERE id = $1`, s.ID, s.Name, s.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: setor já existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update sector: %w", err)
	}
	return nil
}

// List ordena por nombre.
func (r *SectorRepo) List(ctx context.Context) ([]*entity.Sector, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at FROM sectors ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sector, error) {
		var s entity.Sector
		err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
		return &s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan sector: %w", err)
	}
	return list, nil
}

// Delete elimina el sector; usuarios, pedidos y movimientos quedan con sector_id NULL.
func (r *SectorRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sectors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	return nil
}
