// Package orderflow define la tabla de transiciones del ciclo de vida de un pedido.
package orderflow

import (
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Transitions aristas permitidas. pendente no puede saltar directo a entregue.
var Transitions = map[string][]string{
	entity.OrderStatusPendente:  {entity.OrderStatusAprovado, entity.OrderStatusCancelado},
	entity.OrderStatusAprovado:  {entity.OrderStatusEntregue, entity.OrderStatusCancelado},
	entity.OrderStatusEntregue:  nil,
	entity.OrderStatusCancelado: nil,
}

// Initial estado con el que nace todo pedido.
const Initial = entity.OrderStatusPendente

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s string) bool {
	_, ok := Transitions[s]
	return ok
}

// IsTerminal indica si desde s no hay transiciones.
func IsTerminal(s string) bool {
	next, ok := Transitions[s]
	return ok && len(next) == 0
}

// Allowed devuelve los estados alcanzables desde s.
func Allowed(s string) []string {
	return append([]string(nil), Transitions[s]...)
}

// Check valida la transición from -> to.
func Check(from, to string) error {
	if !IsValidStatus(to) {
		return domain.Invalid("status", "status inválido")
	}
	if !IsValidStatus(from) {
		return domain.ErrInvalidTransition
	}
	if IsTerminal(from) {
		return domain.ErrTerminalStatus
	}
	for _, n := range Transitions[from] {
		if n == to {
			return nil
		}
	}
	return domain.ErrInvalidTransition
}

// ValidPath indica si una secuencia de estados observada es un camino válido desde el estado inicial.
func ValidPath(path []string) bool {
	if len(path) == 0 || path[0] != Initial {
		return false
	}
	for i := 1; i < len(path); i++ {
		if Check(path[i-1], path[i]) != nil {
			return false
		}
	}
	return true
}
