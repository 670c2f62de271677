package report

import (
	"context"
	"strings"
	"time"

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

// Prefijo de las claves de caché de reportes.
const CacheKeyPrefix = "report:"

// UseCase lectura de reportes y dashboard. No modifica nada.
type UseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    ports.ReportCache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(products repository.ProductRepository, orders repository.OrderRepository, cache ports.ReportCache, ttl time.Duration, log zerolog.Logger) *UseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &UseCase{products: products, orders: orders, cache: cache, ttl: ttl, log: log.With().Str("component", "report").Logger()}
}

// Summary reporte de la ventana: estoque crítico, pedidos por estado, tendencia mensual y producto top por sector.
func (uc *UseCase) Summary(ctx context.Context, actor access.Actor, q dto.ReportQuery) (*dto.ReportSummaryDTO, error) {
	if !actor.CanViewReports() {
		return nil, domain.ErrForbidden
	}
	status := strings.TrimSpace(q.Status)
	if status != "" && !orderflow.IsValidStatus(status) {
		return nil, domain.Invalid("status", "status inválido")
	}
	window, err := period.Parse(q.StartDate, q.EndDate, time.Local)
	if err != nil {
		return nil, err
	}
	key := CacheKeyPrefix + "summary:" + strings.TrimSpace(q.StartDate) + ":" + strings.TrimSpace(q.EndDate) + ":" + status
	var cached dto.ReportSummaryDTO
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	products, err := uc.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, domain.Dependency("list products", err)
	}
	orders, err := uc.orders.List(ctx, repository.OrderQuery{Status: status, From: window.From, To: window.To, WithItems: true})
	if err != nil {
		return nil, domain.Dependency("list orders", err)
	}
	out := &dto.ReportSummaryDTO{
		From:             window.From,
		To:               window.To,
		LowStockCount:    LowStockCount(products),
		CriticalProducts: CriticalProducts(products),
		StatusCounts:     StatusCounts(orders),
		TotalOrders:      len(orders),
		MonthlyTrends:    MonthlyTrends(orders),
		TopProducts:      TopProductBySector(orders),
	}
	if err := uc.cache.Set(ctx, key, out, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el reporte en caché")
	}
	return out, nil
}

// Dashboard tarjetas del panel principal.
func (uc *UseCase) Dashboard(ctx context.Context, actor access.Actor) (*dto.DashboardDTO, error) {
	if !actor.CanViewReports() {
		return nil, domain.ErrForbidden
	}
	key := CacheKeyPrefix + "dashboard"
	var cached dto.DashboardDTO
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	products, err := uc.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, domain.Dependency("list products", err)
	}
	orders, err := uc.orders.List(ctx, repository.OrderQuery{})
	if err != nil {
		return nil, domain.Dependency("list orders", err)
	}
	out := &dto.DashboardDTO{TotalProducts: len(products), LowStockCount: LowStockCount(products)}
	for _, o := range orders {
		switch o.Status {
		case entity.OrderStatusPendente:
			out.PendingOrders++
		case entity.OrderStatusEntregue:
			out.DeliveredOrders++
		}
	}
	if err := uc.cache.Set(ctx, key, out, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el dashboard en caché")
	}
	return out, nil
}

// LowStock productos críticos sin control de actor; lo usan el cron y la CLI.
func (uc *UseCase) LowStock(ctx context.Context) ([]dto.CriticalProductDTO, error) {
	products, err := uc.products.List(ctx, repository.ProductFilter{Stock: repository.StockFilterLow})
	if err != nil {
		return nil, domain.Dependency("list products", err)
	}
	return CriticalProducts(products), nil
}
