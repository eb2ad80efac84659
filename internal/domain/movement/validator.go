package movement

import (
	"fmt"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// Snapshot es el estado observado contra el que se valida un movimiento.
// Employees y Projects indican si cada id consultado existe en su directorio.
type Snapshot struct {
	ItemFound    bool
	CurrentStock int
	Employees    map[string]bool
	Projects     map[string]bool
}

const (
	minYear = 1900
	maxYear = 9999
)

// Validate comprueba un movimiento propuesto contra el catálogo y el snapshot.
// Ítem inexistente y tipo desconocido cortan la validación; cantidad, fecha y
// participantes se acumulan en un único ValidationError; la suficiencia de stock
// solo se evalúa si lo anterior pasó. No tiene efectos secundarios.
func Validate(m *entity.Movement, s Snapshot) error {
	if m.ItemID == "" || !s.ItemFound {
		return single(domain.FieldError{
			Field:   "item_id",
			Code:    domain.CodeItemNotFound,
			Message: "el ítem no existe",
		})
	}

	d, err := Lookup(m.Type)
	if err != nil {
		return single(domain.FieldError{
			Field:   "type",
			Code:    domain.CodeUnknownMovementType,
			Message: fmt.Sprintf("tipo de movimiento desconocido: %q", m.Type),
		})
	}

	var fields []domain.FieldError
	if m.Quantity <= 0 {
		fields = append(fields, domain.FieldError{
			Field:   "quantity",
			Code:    domain.CodeInvalidQuantity,
			Message: "la cantidad debe ser un entero positivo",
		})
	}
	if m.MovementDate.IsZero() || m.MovementDate.Year() < minYear || m.MovementDate.Year() > maxYear {
		fields = append(fields, domain.FieldError{
			Field:   "movement_date",
			Code:    domain.CodeInvalidDate,
			Message: "la fecha del movimiento no es una fecha válida",
		})
	}
	for _, role := range d.RequiredRoles() {
		id := Participant(m, role)
		if id == "" || !known(s, role, id) {
			fields = append(fields, domain.FieldError{
				Field:   string(role) + "_id",
				Code:    domain.CodeMissingParticipant,
				Message: fmt.Sprintf("participante requerido ausente o inexistente: %s", role),
				Role:    string(role),
			})
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	if d.EnforcesStockSufficiency && m.Quantity > s.CurrentStock {
		return single(domain.FieldError{
			Field:     "quantity",
			Code:      domain.CodeInsufficientStock,
			Message:   fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", s.CurrentStock, m.Quantity),
			Available: s.CurrentStock,
			Requested: m.Quantity,
		})
	}
	return nil
}

func known(s Snapshot, role Role, id string) bool {
	if role == RoleProject {
		return s.Projects[id]
	}
	return s.Employees[id]
}

func single(f domain.FieldError) error {
	return &domain.ValidationError{Fields: []domain.FieldError{f}}
}
