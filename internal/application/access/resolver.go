// Package access resuelve la identidad de cada petición y administra cuentas de usuario.
package access

import (
	"context"

	"github.com/rs/zerolog"

	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Resolver construye el Actor de una petición a partir del id autenticado.
// Roles y sector se leen del servidor en cada llamada; nunca del token.
type Resolver struct {
	users repository.UserRepository
	log   zerolog.Logger
}

// NewResolver construye el resolvedor.
func NewResolver(users repository.UserRepository, log zerolog.Logger) *Resolver {
	return &Resolver{users: users, log: log.With().Str("component", "resolver").Logger()}
}

// Resolve devuelve el actor de userID. Si la consulta falla o no hay roles conocidos
// el actor queda sin rol y se le niega toda capacidad.
func (r *Resolver) Resolve(ctx context.Context, userID string) authz.Actor {
	if userID == "" {
		return authz.Anonymous()
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo resolver la identidad")
		return authz.Actor{UserID: userID}
	}
	if user == nil {
		return authz.Actor{UserID: userID}
	}
	labels := user.Roles
	if labels == nil {
		labels, err = r.users.RolesOf(ctx, userID)
		if err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudieron leer los roles")
			return authz.Actor{UserID: userID, SectorID: user.SectorID}
		}
	}
	return authz.NewActor(userID, user.SectorID, labels)
}

// Claves de capacidad expuestas en /api/auth/me y usadas por los middlewares HTTP.
const (
	CapManageSectors   = "manage_sectors"
	CapAdministerUsers = "administer_users"
	CapDeleteUsers     = "delete_users"
	CapDeleteRecords   = "delete_records"
	CapViewLedger      = "view_ledger"
	CapManageProducts  = "manage_products"
	CapRecordMovements = "record_movements"
	CapProcessOrders   = "process_orders"
	CapCreateOrders    = "create_orders"
	CapManagePrinters  = "manage_printers"
	CapViewReports     = "view_reports"
)

// Capabilities mapa de capacidades del actor, para el front-end.
func Capabilities(a authz.Actor) map[string]bool {
	return map[string]bool{
		CapManageSectors:   a.CanManageSectors(),
		CapAdministerUsers: a.CanAdministerUsers(),
		CapDeleteUsers:     a.CanDeleteUsers(),
		CapDeleteRecords:   a.CanDeleteRecords(),
		CapViewLedger:      a.CanViewLedger(),
		CapManageProducts:  a.CanManageProducts(),
		CapRecordMovements: a.CanRecordMovements(),
		CapProcessOrders:   a.CanProcessOrders(),
		CapCreateOrders:    a.CanCreateOrders(),
		CapManagePrinters:  a.CanManagePrinters(),
		CapViewReports:     a.CanViewReports(),
	}
}

