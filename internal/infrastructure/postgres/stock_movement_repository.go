package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementSelect = `
	SELECT m.id, m.product_id, m.movement_category, m.movement_type, m.quantity, m.previous_stock, m.new_stock,
	       m.notes, m.performed_by, m.sector_id, m.created_at, m.deleted_at, m.deleted_by, COALESCE(m.deletion_reason, ''),
	       COALESCE(p.name, ''), COALESCE(p.unit, ''), COALESCE(s.name, ''), COALESCE(u.full_name, '')
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN sectors s ON s.id = m.sector_id
	LEFT JOIN users u ON u.id = m.performed_by`

// StockMovementRepo libro de movimientos sobre PostgreSQL. Solo inserta y marca; nunca borra filas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m                                          entity.StockMovement
		productID, performedBy, sectorID, deletedBy *string
	)
	err := row.Scan(&m.ID, &productID, &m.Category, &m.Type, &m.Quantity, &m.PreviousStock, &m.NewStock,
		&m.Notes, &performedBy, &sectorID, &m.CreatedAt, &m.DeletedAt, &deletedBy, &m.DeletionReason,
		&m.ProductName, &m.ProductUnit, &m.SectorName, &m.PerformedByName)
	if err != nil {
		return nil, err
	}
	m.ProductID = deref(productID)
	m.PerformedBy = deref(performedBy)
	m.SectorID = deref(sectorID)
	m.DeletedBy = deref(deletedBy)
	return &m, nil
}

// Create agrega un movimiento al libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_category, movement_type, quantity, previous_stock, new_stock, notes, performed_by, sector_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, nullable(m.ProductID), m.Category, m.Type, m.Quantity, m.PreviousStock, m.NewStock,
		m.Notes, nullable(m.PerformedBy), nullable(m.SectorID), m.CreatedAt)
	if err != nil {
		if isForeignKeyOn(err, "sector_id") {
			return domain.Invalid("sector_id", "setor inexistente")
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento (incluidos los eliminados).
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// MarkDeleted marca la eliminación lógica. Solo afecta filas aún no eliminadas:
// si otra petición ya la marcó devuelve ErrConflict.
func (r *StockMovementRepo) MarkDeleted(ctx context.Context, id string, at time.Time, by, reason string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_movements SET deleted_at = $2, deleted_by = $3, deletion_reason = $4
		WHERE id = $1 AND deleted_at IS NULL`, id, at, nullable(by), reason)
	if err != nil {
		return fmt.Errorf("mark stock movement deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List lista movimientos filtrados. El orden final lo define el caso de uso.
func (r *StockMovementRepo) List(ctx context.Context, q repository.MovementQuery) ([]*entity.StockMovement, error) {
	if (q.SectorID != "" && !isUUID(q.SectorID)) || (q.ProductID != "" && !isUUID(q.ProductID)) {
		return nil, nil
	}
	var w where
	if !q.IncludeDeleted {
		w.raw(`m.deleted_at IS NULL`)
	}
	if q.Category != "" {
		w.add(`m.movement_category = $%d`, q.Category)
	}
	if q.SectorID != "" {
		w.add(`m.sector_id = $%d`, q.SectorID)
	}
	if q.ProductID != "" {
		w.add(`m.product_id = $%d`, q.ProductID)
	}
	if q.From != nil {
		w.add(`m.created_at >= $%d`, *q.From)
	}
	if q.To != nil {
		w.add(`m.created_at <= $%d`, *q.To)
	}
	rows, err := r.q.Query(ctx, movementSelect+w.String()+` ORDER BY m.created_at DESC, m.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
