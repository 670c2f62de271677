// Package access resuelve el rol efectivo de una identidad y las capacidades que de él derivan.
// Es puro: no consulta la base de datos ni mantiene estado global.
package access

// Role rol asignable a un usuario.
type Role string

// Roles válidos.
const (
	RoleAdmin      Role = "admin"
	RoleGerente    Role = "gerente"
	RoleEstoquista Role = "estoquista"
	RoleSetor      Role = "setor"
)

// Precedence orden fijo de precedencia, de mayor a menor.
var Precedence = []Role{RoleAdmin, RoleGerente, RoleEstoquista, RoleSetor}

// ParseRole convierte una etiqueta cruda en Role. ok=false si no es un rol conocido.
func ParseRole(label string) (Role, bool) {
	for _, r := range Precedence {
		if string(r) == label {
			return r, true
		}
	}
	return "", false
}

// Resolve devuelve el rol efectivo para el conjunto de etiquetas que posee una identidad.
// Sin etiquetas conocidas, ok=false: la identidad no tiene rol y se le niega toda capacidad.
func Resolve(labels []string) (Role, bool) {
	held := make(map[Role]bool, len(labels))
	for _, l := range labels {
		if r, ok := ParseRole(l); ok {
			held[r] = true
		}
	}
	for _, r := range Precedence {
		if held[r] {
			return r, true
		}
	}
	return "", false
}

func (r Role) rank() int {
	for i, p := range Precedence {
		if p == r {
			return len(Precedence) - i
		}
	}
	return 0
}

// AtLeast indica si r tiene precedencia igual o mayor que min.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

func (r Role) String() string { return string(r) }
