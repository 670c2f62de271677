package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido entre sectores.
const (
	OrderStatusPendente  = "pendente"
	OrderStatusAprovado  = "aprovado"
	OrderStatusEntregue  = "entregue"
	OrderStatusCancelado = "cancelado"
)

// Order pedido de un sector al almoxarifado.
type Order struct {
	ID          string
	SectorID    string
	RequestedBy string
	Status      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time
	DeliveredBy string

	Items []OrderItem

	// Datos de lectura (join).
	SectorName      string
	RequesterName   string
	DeliveredByName string
}

// OrderItem línea de un pedido (cantidad > 0).
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	CreatedAt time.Time

	ProductName string
	ProductUnit string
}
