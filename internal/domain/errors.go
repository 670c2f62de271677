package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Agrupación: validación, autorización, conflicto de dominio y dependencia externa.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthenticated   = errors.New("no autenticado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDependency        = errors.New("falla en servicio externo")
	ErrInsufficientStock = fmt.Errorf("%w: estoque insuficiente", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: transición de estado no permitida", ErrConflict)
	ErrTerminalStatus    = fmt.Errorf("%w: el pedido está en estado terminal", ErrConflict)
)

// FieldError error de validación asociado a un campo concreto del request.
// errors.Is(err, ErrValidation) es verdadero para cualquier FieldError.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite comparar contra ErrValidation.
func (e *FieldError) Unwrap() error { return ErrValidation }

// Invalid construye un FieldError.
func Invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// Dependency envuelve una falla de la base de datos o del servicio de identidad.
// Errores de dominio ya clasificados se devuelven sin tocar.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}

// IsClassified indica si err ya pertenece a la taxonomía de dominio.
func IsClassified(err error) bool {
	for _, target := range []error{ErrNotFound, ErrValidation, ErrDuplicate, ErrUnauthenticated, ErrForbidden, ErrConflict, ErrDependency} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
