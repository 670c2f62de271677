package entity

import "time"

// Sector unidad organizacional que solicita pedidos.
type Sector struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
