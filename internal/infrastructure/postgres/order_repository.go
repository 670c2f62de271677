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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderSelect = `
	SELECT o.id, o.sector_id, o.requested_by, o.status, o.notes, o.created_at, o.updated_at, o.delivered_at, o.delivered_by,
	       COALESCE(s.name, ''), COALESCE(rq.full_name, ''), COALESCE(dv.full_name, '')
	FROM orders o
	LEFT JOIN sectors s ON s.id = o.sector_id
	LEFT JOIN users rq ON rq.id = o.requested_by
	LEFT JOIN users dv ON dv.id = o.delivered_by`

// OrderRepo pedidos y líneas sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                                 entity.Order
		sectorID, requestedBy, deliveredBy *string
	)
	err := row.Scan(&o.ID, &sectorID, &requestedBy, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		&o.DeliveredAt, &deliveredBy, &o.SectorName, &o.RequesterName, &o.DeliveredByName)
	if err != nil {
		return nil, err
	}
	o.SectorID = deref(sectorID)
	o.RequestedBy = deref(requestedBy)
	o.DeliveredBy = deref(deliveredBy)
	return &o, nil
}

// Create inserta la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, sector_id, requested_by, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, nullable(o.SectorID), nullable(o.RequestedBy), o.Status, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isForeignKeyOn(err, "sector_id") {
			return domain.Invalid("sector_id", "setor inexistente")
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItems inserta las líneas del pedido.
func (r *OrderRepo) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.OrderID, nullable(it.ProductID), it.Quantity, it.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.Invalid("items", "produto inexistente")
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, orderSelect+` WHERE o.id = $1`, id)
}

// GetForUpdate bloquea la fila del pedido (solo la tabla orders) hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	if !isUUID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	byOrder, err := r.itemsOf(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = byOrder[o.ID]
	return o, nil
}

// UpdateStatus persiste estado, updated_at y datos de entrega.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = $3, delivered_at = $4, delivered_by = $5
		WHERE id = $1`, o.ID, o.Status, o.UpdatedAt, o.DeliveredAt, nullable(o.DeliveredBy))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// List lista pedidos del más reciente al más antiguo.
func (r *OrderRepo) List(ctx context.Context, q repository.OrderQuery) ([]*entity.Order, error) {
	if q.SectorID != "" && !isUUID(q.SectorID) {
		return nil, nil
	}
	var w where
	if q.Status != "" {
		w.add(`o.status = $%d`, q.Status)
	}
	if q.SectorID != "" {
		w.add(`o.sector_id = $%d`, q.SectorID)
	}
	if q.From != nil {
		w.add(`o.created_at >= $%d`, *q.From)
	}
	if q.To != nil {
		w.add(`o.created_at <= $%d`, *q.To)
	}
	rows, err := r.q.Query(ctx, orderSelect+w.String()+` ORDER BY o.created_at DESC, o.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var (
		list []*entity.Order
		ids  []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if !q.WithItems || len(ids) == 0 {
		return list, nil
	}
	byOrder, err := r.itemsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Items = byOrder[o.ID]
	}
	return list, nil
}

func (r *OrderRepo) itemsOf(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.created_at, COALESCE(p.name, ''), COALESCE(p.unit, '')
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1::uuid[])
		ORDER BY i.created_at, i.id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			it        entity.OrderItem
			productID *string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &it.Quantity, &it.CreatedAt, &it.ProductName, &it.ProductUnit); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.ProductID = deref(productID)
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// Delete elimina el pedido; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
