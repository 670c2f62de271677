package access

// Actor contexto explícito de quien invoca una operación: identidad, rol efectivo y sector asignado.
// Se construye por petición y se pasa a cada caso de uso.
type Actor struct {
	UserID   string
	Role     Role
	HasRole  bool
	SectorID string
}

// Anonymous actor sin identidad ni rol.
func Anonymous() Actor { return Actor{} }

// NewActor construye un actor a partir de sus etiquetas de rol crudas.
func NewActor(userID, sectorID string, labels []string) Actor {
	role, ok := Resolve(labels)
	return Actor{UserID: userID, Role: role, HasRole: ok, SectorID: sectorID}
}

// Authenticated indica si hay una identidad detrás del actor.
func (a Actor) Authenticated() bool { return a.UserID != "" }

func (a Actor) is(roles ...Role) bool {
	if !a.HasRole || !a.Authenticated() {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsSetor indica si el actor está restringido a su propio sector.
func (a Actor) IsSetor() bool { return a.is(RoleSetor) }

// CanManageSectors gestión de sectores: solo admin.
func (a Actor) CanManageSectors() bool { return a.is(RoleAdmin) }

// CanAdministerUsers crear, actualizar y listar cuentas.
func (a Actor) CanAdministerUsers() bool { return a.is(RoleAdmin, RoleGerente) }

// CanDeleteUsers eliminación de cuentas: solo admin.
func (a Actor) CanDeleteUsers() bool { return a.is(RoleAdmin) }

// CanDeleteRecords eliminación definitiva (productos, pedidos) y lógica de movimientos.
func (a Actor) CanDeleteRecords() bool { return a.is(RoleAdmin) }

// CanViewLedger acceso a la vista del libro de movimientos.
func (a Actor) CanViewLedger() bool { return a.is(RoleAdmin, RoleGerente) }

// CanManageProducts crear y actualizar productos.
func (a Actor) CanManageProducts() bool { return a.is(RoleAdmin, RoleGerente, RoleEstoquista) }

// CanRecordMovements registrar movimientos de estoque.
func (a Actor) CanRecordMovements() bool { return a.is(RoleAdmin, RoleGerente, RoleEstoquista) }

// CanProcessOrders cambiar el estado de pedidos.
func (a Actor) CanProcessOrders() bool { return a.is(RoleAdmin, RoleGerente, RoleEstoquista) }

// CanCreateOrders cualquier rol puede crear pedidos; setor queda limitado a su sector.
func (a Actor) CanCreateOrders() bool { return a.HasRole && a.Authenticated() }

// CanManagePrinters configuración de impresoras.
func (a Actor) CanManagePrinters() bool { return a.is(RoleAdmin, RoleGerente) }

// CanViewReports lectura de reportes y dashboard.
func (a Actor) CanViewReports() bool { return a.HasRole && a.Authenticated() }

// CanSeeSector indica si el actor puede ver datos del sector dado.
func (a Actor) CanSeeSector(sectorID string) bool {
	if !a.HasRole {
		return false
	}
	if a.IsSetor() {
		return a.SectorID != "" && a.SectorID == sectorID
	}
	return true
}
