package dto

import "time"

// CreateAccountRequest entrada para crear una cuenta (password en texto, se hashea en el caso de uso).
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	SectorID string `json:"sector_id,omitempty"`
	Position string `json:"position,omitempty"`
}

// UpdateAccountRequest edición parcial de una cuenta.
type UpdateAccountRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	SectorID *string `json:"sector_id"`
	Position *string `json:"position"`
}

// UserResponse salida de una cuenta (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	SectorID  string    `json:"sector_id,omitempty"`
	Position  string    `json:"position,omitempty"`
	Roles     []string  `json:"roles"`
	Role      string    `json:"role,omitempty"` // rol efectivo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse identidad y capacidades del actor actual.
type MeResponse struct {
	UserID       string          `json:"user_id"`
	Role         string          `json:"role,omitempty"`
	SectorID     string          `json:"sector_id,omitempty"`
	Capabilities map[string]bool `json:"capabilities"`
}
