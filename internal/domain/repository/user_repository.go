package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas, perfiles y asignaciones de rol.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
	// RolesOf devuelve las etiquetas de rol crudas asignadas al usuario.
	RolesOf(ctx context.Context, userID string) ([]string, error)
	// ReplaceRoles borra las asignaciones existentes e inserta las nuevas.
	ReplaceRoles(ctx context.Context, userID string, roles []string, assignedBy string) error
}
