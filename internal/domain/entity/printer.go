package entity

import "time"

// Printer impresora térmica configurada para los tickets de pedido.
type Printer struct {
	ID                string
	Name              string
	Location          string
	IPAddress         string // vacío = sin envío por red
	IsActive          bool
	AutoPrintOnAccept bool // imprime automáticamente cuando el pedido pasa a entregue
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
