package entity

import "time"

// User cuenta de acceso con su perfil (nombre, sector, cargo).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en texto plano
	FullName     string
	SectorID     string
	Position     string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Roles []string // etiquetas crudas de user_roles
}

// RoleAssignment fila de user_roles.
type RoleAssignment struct {
	ID         string
	UserID     string
	Role       string
	AssignedBy string
	AssignedAt time.Time
}
