package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrUnknownMovementType = errors.New("tipo de movimiento desconocido")
	ErrConcurrency         = errors.New("operación concurrente sobre el mismo ítem, reintente")
	ErrConsistency         = errors.New("inconsistencia entre movimientos y stock")
)

// Códigos de error por campo devueltos al cliente.
const (
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeUnknownMovementType = "UNKNOWN_MOVEMENT_TYPE"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInvalidDate         = "INVALID_DATE"
	CodeMissingParticipant  = "MISSING_PARTICIPANT"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
)

// FieldError describe un error de validación sobre un campo del movimiento.
// Role solo aplica a MISSING_PARTICIPANT; Available/Requested solo a INSUFFICIENT_STOCK.
type FieldError struct {
	Field     string
	Code      string
	Message   string
	Role      string
	Available int
	Requested int
}

// ValidationError agrupa todos los errores de campo detectados en una sola validación,
// para que la UI pueda mostrarlos juntos. Es corregible por el usuario y nunca se reintenta.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput) y, si aplica, errors.Is(err, ErrInsufficientStock)
// o errors.Is(err, ErrUnknownMovementType).
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return true
	case ErrInsufficientStock:
		return e.Has(CodeInsufficientStock)
	case ErrUnknownMovementType:
		return e.Has(CodeUnknownMovementType)
	}
	return false
}

// Has indica si el error contiene un campo con el código dado.
func (e *ValidationError) Has(code string) bool {
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// InsufficientStockError lo devuelve el ledger cuando aplicar un delta dejaría el stock negativo.
type InsufficientStockError struct {
	ItemID    string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el ítem %s: disponible %d, solicitado %d", e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ConsistencyError señala que el ledger no pudo reconciliarse con un movimiento
// (ítem inexistente al revertir, compensación fallida). Se registra como advertencia.
type ConsistencyError struct {
	MovementID string
	ItemID     string
	Reason     string
	Err        error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("inconsistencia en movimiento %s (ítem %s): %s", e.MovementID, e.ItemID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

func (e *ConsistencyError) Unwrap() error { return e.Err }
