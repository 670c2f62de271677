package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.PrinterRepository = (*PrinterRepo)(nil)

const printerColumns = `id, name, location, COALESCE(ip_address, ''), is_active, auto_print_on_accept, created_at, updated_at`

// PrinterRepo impresoras sobre PostgreSQL.
type PrinterRepo struct {
	q Querier
}

func NewPrinterRepository(q Querier) *PrinterRepo {
	return &PrinterRepo{q: q}
}

func scanPrinter(row pgx.Row) (*entity.Printer, error) {
	var p entity.Printer
	err := row.Scan(&p.ID, &p.Name, &p.Location, &p.IPAddress, &p.IsActive, &p.AutoPrintOnAccept, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrinterRepo) Create(ctx context.Context, p *entity.Printer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO printers (id, name, location, ip_address, is_active, auto_print_on_accept, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Location, nullable(p.IPAddress), p.IsActive, p.AutoPrintOnAccept, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert printer: %w", err)
	}
	return nil
}

func (r *PrinterRepo) GetByID(ctx context.Context, id string) (*entity.Printer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPrinter(r.q.QueryRow(ctx, `SELECT `+printerColumns+` FROM printers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get printer: %w", err)
	}
	return p, nil
}

func (r *PrinterRepo) Update(ctx context.Context, p *entity.Printer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE printers SET name = $2, location = $3, ip_address = $4, is_active = $5, auto_print_on_accept = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Name, p.Location, nullable(p.IPAddress), p.IsActive, p.AutoPrintOnAccept, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update printer: %w", err)
	}
	return nil
}

// List ordena por nombre; activeOnly filtra las inactivas.
func (r *PrinterRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PrinterRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM printers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete printer: %w", err)
	}
	return nil
}
