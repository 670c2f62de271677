// Package ledger contiene la aritmética del libro de estoque: cómo cada tipo de movimiento
// transforma el stock previo en el nuevo. No persiste nada.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// Result efecto calculado de un movimiento.
type Result struct {
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	Quantity      decimal.Decimal // valor absoluto registrado en el movimiento
}

// Apply calcula el nuevo stock para un movimiento.
//   - entrada: previo + cantidad (cantidad > 0)
//   - saida:   previo - cantidad (cantidad > 0, nunca deja stock negativo)
//   - ajuste:  cantidad es el valor objetivo (>= 0); se registra |objetivo - previo|
func Apply(previous decimal.Decimal, movementType string, quantity decimal.Decimal) (Result, error) {
	switch movementType {
	case entity.MovementTypeEntrada:
		if !quantity.IsPositive() {
			return Result{}, domain.Invalid("quantity", "deve ser maior que zero")
		}
		return Result{PreviousStock: previous, NewStock: previous.Add(quantity), Quantity: quantity}, nil
	case entity.MovementTypeSaida:
		if !quantity.IsPositive() {
			return Result{}, domain.Invalid("quantity", "deve ser maior que zero")
		}
		next := previous.Sub(quantity)
		if next.IsNegative() {
			return Result{}, domain.ErrInsufficientStock
		}
		return Result{PreviousStock: previous, NewStock: next, Quantity: quantity}, nil
	case entity.MovementTypeAjuste:
		if quantity.IsNegative() {
			return Result{}, domain.Invalid("quantity", "o estoque ajustado não pode ser negativo")
		}
		return Result{PreviousStock: previous, NewStock: quantity, Quantity: quantity.Sub(previous).Abs()}, nil
	}
	return Result{}, domain.Invalid("movement_type", "tipo de movimentação inválido")
}

// Delta traduce una edición directa del stock en el movimiento equivalente.
// changed=false cuando el valor no cambió y no debe registrarse nada.
func Delta(previous, target decimal.Decimal) (movementType string, quantity decimal.Decimal, changed bool) {
	diff := target.Sub(previous)
	switch {
	case diff.IsPositive():
		return entity.MovementTypeEntrada, diff, true
	case diff.IsNegative():
		return entity.MovementTypeSaida, diff.Abs(), true
	}
	return "", decimal.Zero, false
}

// Step un movimiento a reproducir.
type Step struct {
	Type     string
	Quantity decimal.Decimal
}

// Replay aplica los pasos en orden. Un paso que dejaría el stock negativo se rechaza
// y no altera el valor acumulado; rejected contiene los índices rechazados.
func Replay(initial decimal.Decimal, steps []Step) (final decimal.Decimal, rejected []int) {
	current := initial
	for i, s := range steps {
		res, err := Apply(current, s.Type, s.Quantity)
		if err != nil {
			rejected = append(rejected, i)
			continue
		}
		current = res.NewStock
	}
	return current, rejected
}

// Verify comprueba el invariante de un movimiento ya registrado.
func Verify(m *entity.StockMovement) bool {
	switch m.Type {
	case entity.MovementTypeEntrada:
		return m.NewStock.Equal(m.PreviousStock.Add(m.Quantity))
	case entity.MovementTypeSaida:
		return m.NewStock.Equal(m.PreviousStock.Sub(m.Quantity)) && !m.NewStock.IsNegative()
	case entity.MovementTypeAjuste:
		return !m.NewStock.IsNegative() && m.Quantity.Equal(m.NewStock.Sub(m.PreviousStock).Abs())
	}
	return false
}
