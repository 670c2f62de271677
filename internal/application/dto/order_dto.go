package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	SectorID string             `json:"sector_id"`
	Notes    string             `json:"notes"`
	Items    []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderListQuery filtros de pedidos.
type OrderListQuery struct {
	Status    string `query:"status"`
	SectorID  string `query:"sector_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// OrderItemResponse salida de una línea.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductUnit string          `json:"product_unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	SectorID        string              `json:"sector_id"`
	SectorName      string              `json:"sector_name,omitempty"`
	RequestedBy     string              `json:"requested_by"`
	RequesterName   string              `json:"requester_name,omitempty"`
	Status          string              `json:"status"`
	AllowedNext     []string            `json:"allowed_next"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	DeliveredBy     string              `json:"delivered_by,omitempty"`
	DeliveredByName string              `json:"delivered_by_name,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}
