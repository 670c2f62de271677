package dto

import "time"

// SectorRequest entrada para crear o actualizar un sector.
type SectorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SectorResponse salida de un sector.
type SectorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PrinterRequest entrada para crear o actualizar una impresora.
type PrinterRequest struct {
	Name              string `json:"name"`
	Location          string `json:"location"`
	IPAddress         string `json:"ip_address"`
	IsActive          *bool  `json:"is_active"`
	AutoPrintOnAccept bool   `json:"auto_print_on_accept"`
}

// PrinterResponse salida de una impresora.
type PrinterResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	IPAddress         string    `json:"ip_address,omitempty"`
	IsActive          bool      `json:"is_active"`
	AutoPrintOnAccept bool      `json:"auto_print_on_accept"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
