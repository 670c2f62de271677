package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportQuery ventana y estado para los reportes.
type ReportQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Status    string `query:"status"`
}

// StatusCountDTO pedidos por estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MonthlyTrendDTO pedidos y cantidad pedida por mes calendario (YYYY-MM).
type MonthlyTrendDTO struct {
	Month    string          `json:"month"`
	Orders   int             `json:"orders"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TopProductDTO producto más pedido de un sector.
type TopProductDTO struct {
	Sector   string          `json:"sector"`
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CriticalProductDTO producto en o bajo el mínimo.
type CriticalProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// ReportSummaryDTO reporte completo de la ventana solicitada.
type ReportSummaryDTO struct {
	From             *time.Time           `json:"from,omitempty"`
	To               *time.Time           `json:"to,omitempty"`
	LowStockCount    int                  `json:"low_stock_count"`
	CriticalProducts []CriticalProductDTO `json:"critical_products"`
	StatusCounts     []StatusCountDTO     `json:"status_counts"`
	TotalOrders      int                  `json:"total_orders"`
	MonthlyTrends    []MonthlyTrendDTO    `json:"monthly_trends"`
	TopProducts      []TopProductDTO      `json:"top_products_by_sector"`
}

// DashboardDTO tarjetas del panel principal.
type DashboardDTO struct {
	TotalProducts   int `json:"total_products"`
	LowStockCount   int `json:"low_stock_count"`
	PendingOrders   int `json:"pending_orders"`
	DeliveredOrders int `json:"delivered_orders"`
}
