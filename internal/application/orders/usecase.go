// Package orders implementa el ciclo de vida de los pedidos entre sectores y el almoxarifado.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/period"
	"github.com/jhoicas/estoque-api/internal/application/ports"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/orderflow"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// printTimeout límite para la impresión automática, que corre fuera de la petición.
const printTimeout = 30 * time.Second

// UseCase crea, transiciona, lista e imprime pedidos.
type UseCase struct {
	txRunner  repository.TxRunner
	orders    repository.OrderRepository
	publisher ports.EventPublisher
	printer   ports.OrderPrinter
	metrics   ports.MetricsRecorder
	cache     ports.ReportCache
	log       zerolog.Logger
	now       func() time.Time
}

// Deps colaboradores opcionales del caso de uso; los nil se reemplazan por no-ops.
type Deps struct {
	Publisher ports.EventPublisher
	Printer   ports.OrderPrinter
	Metrics   ports.MetricsRecorder
	Cache     ports.ReportCache
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, orders repository.OrderRepository, deps Deps, log zerolog.Logger) *UseCase {
	if deps.Publisher == nil {
		deps.Publisher = ports.NopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	if deps.Cache == nil {
		deps.Cache = ports.NopCache{}
	}
	return &UseCase{
		txRunner:  txRunner,
		orders:    orders,
		publisher: deps.Publisher,
		printer:   deps.Printer,
		metrics:   deps.Metrics,
		cache:     deps.Cache,
		log:       log.With().Str("component", "orders").Logger(),
		now:       time.Now,
	}
}

// Create registra un pedido pendente con sus líneas en una sola transacción.
// Un actor setor solo puede pedir para su propio sector.
func (uc *UseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !actor.CanCreateOrders() {
		return nil, domain.ErrForbidden
	}
	sectorID := strings.TrimSpace(in.SectorID)
	if actor.IsSetor() {
		if actor.SectorID == "" {
			return nil, domain.ErrForbidden
		}
		if sectorID == "" {
			sectorID = actor.SectorID
		}
		if sectorID != actor.SectorID {
			return nil, domain.ErrForbidden
		}
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "o pedido precisa de pelo menos um item")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "produto obrigatório")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "deve ser maior que zero")
		}
	}

	now := uc.now()
	order := &entity.Order{
		ID:          uuid.New().String(),
		SectorID:    sectorID,
		RequestedBy: actor.UserID,
		Status:      orderflow.Initial,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]entity.OrderItem, 0, len(in.Items))
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if err := requireSector(ctx, tx, sectorID); err != nil {
			return err
		}
		for i, it := range in.Items {
			p, err := tx.Products.GetByID(ctx, strings.TrimSpace(it.ProductID))
			if err != nil {
				return domain.Dependency("get product", err)
			}
			if p == nil {
				return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "produto não encontrado")
			}
			items = append(items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				Quantity:    it.Quantity,
				CreatedAt:   now,
				ProductName: p.Name,
				ProductUnit: p.Unit,
			})
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return domain.Dependency("insert order", err)
		}
		if err := tx.Orders.CreateItems(ctx, items); err != nil {
			return domain.Dependency("insert order items", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	uc.publisher.Publish(ports.Event{Type: ports.EventOrderCreated, OrderID: order.ID, SectorID: order.SectorID, Status: order.Status, At: now})
	uc.invalidate(ctx)
	uc.log.Info().Str("order_id", order.ID).Str("sector_id", sectorID).Int("items", len(items)).Str("user_id", actor.UserID).Msg("pedido creado")
	return ToOrderResponse(order), nil
}

// TransitionStatus mueve el pedido a status si la arista existe. Al entregar registra
// delivered_at/delivered_by y, tras el commit, dispara la impresión automática.
func (uc *UseCase) TransitionStatus(ctx context.Context, actor access.Actor, orderID, status string) (*dto.OrderResponse, error) {
	if !actor.CanProcessOrders() {
		return nil, domain.ErrForbidden
	}
	status = strings.TrimSpace(status)
	if !orderflow.IsValidStatus(status) {
		return nil, domain.Invalid("status", "status inválido")
	}
	var (
		order *entity.Order
		from  string
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		order, err = tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return domain.Dependency("lock order", err)
		}
		if order == nil {
			return domain.ErrNotFound
		}
		from = order.Status
		if err := orderflow.Check(from, status); err != nil {
			return err
		}
		now := uc.now()
		order.Status = status
		order.UpdatedAt = now
		if status == entity.OrderStatusEntregue {
			order.DeliveredAt = &now
			order.DeliveredBy = actor.UserID
		}
		if err := tx.Orders.UpdateStatus(ctx, order); err != nil {
			return domain.Dependency("update order status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderTransitioned(from, status)
	uc.publisher.Publish(ports.Event{Type: ports.EventOrderStatusChanged, OrderID: order.ID, SectorID: order.SectorID, Status: status, At: order.UpdatedAt})
	uc.invalidate(ctx)
	uc.log.Info().Str("order_id", order.ID).Str("from", from).Str("to", status).Str("user_id", actor.UserID).Msg("estado de pedido actualizado")

	if status == entity.OrderStatusEntregue && uc.printer != nil {
		go uc.autoPrint(context.WithoutCancel(ctx), order.ID)
	}
	return ToOrderResponse(order), nil
}

func (uc *UseCase) autoPrint(ctx context.Context, orderID string) {
	ctx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()
	if err := uc.printer.AutoPrint(ctx, orderID); err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("falla en la impresión automática")
	}
}

// Print envía el ticket del pedido a las impresoras activas. La falla se informa pero no altera el pedido.
func (uc *UseCase) Print(ctx context.Context, actor access.Actor, orderID string) error {
	if !actor.CanProcessOrders() {
		return domain.ErrForbidden
	}
	if uc.printer == nil {
		return domain.Dependency("print order", fmt.Errorf("impresión no configurada"))
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Dependency("get order", err)
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if err := uc.printer.Print(ctx, orderID); err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("falla al imprimir")
		return domain.Dependency("print order", err)
	}
	return nil
}

// Get devuelve el pedido con sus líneas. Un actor setor solo ve pedidos de su sector.
func (uc *UseCase) Get(ctx context.Context, actor access.Actor, orderID string) (*dto.OrderResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, domain.Dependency("get order", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanSeeSector(order.SectorID) {
		return nil, domain.ErrForbidden
	}
	return ToOrderResponse(order), nil
}

// List lista pedidos del más reciente al más antiguo.
func (uc *UseCase) List(ctx context.Context, actor access.Actor, q dto.OrderListQuery) ([]dto.OrderResponse, error) {
	if !actor.HasRole {
		return nil, domain.ErrForbidden
	}
	if q.Status != "" && !orderflow.IsValidStatus(q.Status) {
		return nil, domain.Invalid("status", "status inválido")
	}
	sectorID := strings.TrimSpace(q.SectorID)
	if actor.IsSetor() {
		if sectorID != "" && sectorID != actor.SectorID {
			return nil, domain.ErrForbidden
		}
		sectorID = actor.SectorID
		if sectorID == "" {
			return []dto.OrderResponse{}, nil
		}
	}
	window, err := period.Parse(q.StartDate, q.EndDate, time.Local)
	if err != nil {
		return nil, err
	}
	list, err := uc.orders.List(ctx, repository.OrderQuery{
		Status:    q.Status,
		SectorID:  sectorID,
		From:      window.From,
		To:        window.To,
		WithItems: true,
	})
	if err != nil {
		return nil, domain.Dependency("list orders", err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// Delete elimina un pedido y sus líneas (solo admin).
func (uc *UseCase) Delete(ctx context.Context, actor access.Actor, orderID string) error {
	if !actor.CanDeleteRecords() {
		return domain.ErrForbidden
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Dependency("get order", err)
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if err := uc.orders.Delete(ctx, orderID); err != nil {
		return domain.Dependency("delete order", err)
	}
	uc.invalidate(ctx)
	uc.log.Info().Str("order_id", orderID).Str("user_id", actor.UserID).Msg("pedido eliminado")
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

// ToOrderResponse mapea la entidad a su salida HTTP.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:              o.ID,
		SectorID:        o.SectorID,
		SectorName:      o.SectorName,
		RequestedBy:     o.RequestedBy,
		RequesterName:   o.RequesterName,
		Status:          o.Status,
		AllowedNext:     orderflow.Allowed(o.Status),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		DeliveredAt:     o.DeliveredAt,
		DeliveredBy:     o.DeliveredBy,
		DeliveredByName: o.DeliveredByName,
	}
	if out.AllowedNext == nil {
		out.AllowedNext = []string{}
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductUnit: it.ProductUnit,
			Quantity:    it.Quantity,
		})
	}
	return out
}

// requireSector valida dentro de la transacción que el sector informado exista.
func requireSector(ctx context.Context, tx repository.Repos, sectorID string) error {
	if sectorID == "" {
		return nil
	}
	sec, err := tx.Sectors.GetByID(ctx, sectorID)
	if err != nil {
		return domain.Dependency("get sector", err)
	}
	if sec == nil {
		return domain.Invalid("sector_id", "setor não encontrado")
	}
	return nil
}
