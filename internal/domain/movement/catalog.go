// Package movement contiene las reglas de negocio de los movimientos de inventario:
// el catálogo de tipos y el validador (servicios de dominio puros, sin E/S).
package movement

import (
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// Role es el rol de un participante en un movimiento.
type Role string

// Roles de participante.
const (
	RoleReceivingEmployee Role = "receiving_employee"
	RoleAssigningEmployee Role = "assigning_employee"
	RoleProject           Role = "project"
)

// Descriptor describe las reglas de un tipo de movimiento.
type Descriptor struct {
	Type                      entity.MovementType
	DeltaSign                 int // +1 entrada, -1 salida, 0 sin efecto en stock
	RequiresReceivingEmployee bool
	RequiresAssigningEmployee bool
	RequiresProject           bool
	EnforcesStockSufficiency  bool
}

// Delta devuelve el efecto con signo de quantity sobre el stock.
func (d Descriptor) Delta(quantity int) int {
	return d.DeltaSign * quantity
}

// RequiredRoles lista los roles obligatorios en orden estable.
func (d Descriptor) RequiredRoles() []Role {
	var roles []Role
	if d.RequiresReceivingEmployee {
		roles = append(roles, RoleReceivingEmployee)
	}
	if d.RequiresAssigningEmployee {
		roles = append(roles, RoleAssigningEmployee)
	}
	if d.RequiresProject {
		roles = append(roles, RoleProject)
	}
	return roles
}

var allTypes = []entity.MovementType{
	entity.MovementTypeStockIn,
	entity.MovementTypeStockOut,
	entity.MovementTypeAssignToEmployee,
	entity.MovementTypeAssignToProject,
	entity.MovementTypeReturnFromEmployee,
	entity.MovementTypeReturnFromProject,
	entity.MovementTypeLoss,
	entity.MovementTypeMaintenance,
}

// Types devuelve los ocho tipos del catálogo en orden estable.
func Types() []entity.MovementType {
	out := make([]entity.MovementType, len(allTypes))
	copy(out, allTypes)
	return out
}

// Lookup resuelve el descriptor de un tipo. Un tipo fuera del conjunto cerrado
// devuelve ErrUnknownMovementType.
func Lookup(t entity.MovementType) (Descriptor, error) {
	switch t {
	case entity.MovementTypeStockIn:
		return inbound(t), nil
	case entity.MovementTypeStockOut:
		return outbound(t), nil
	case entity.MovementTypeAssignToEmployee:
		d := outbound(t)
		d.RequiresReceivingEmployee = true
		return d, nil
	case entity.MovementTypeAssignToProject:
		d := outbound(t)
		d.RequiresProject = true
		return d, nil
	case entity.MovementTypeReturnFromEmployee:
		d := inbound(t)
		d.RequiresAssigningEmployee = true
		return d, nil
	case entity.MovementTypeReturnFromProject:
		d := inbound(t)
		d.RequiresProject = true
		return d, nil
	case entity.MovementTypeLoss:
		return outbound(t), nil
	case entity.MovementTypeMaintenance:
		return Descriptor{Type: t, DeltaSign: 0}, nil
	}
	return Descriptor{}, domain.ErrUnknownMovementType
}

func inbound(t entity.MovementType) Descriptor {
	return Descriptor{Type: t, DeltaSign: 1}
}

func outbound(t entity.MovementType) Descriptor {
	return Descriptor{Type: t, DeltaSign: -1, EnforcesStockSufficiency: true}
}

// Normalize limpia los participantes que el tipo no usa, para que una edición
// no arrastre valores de un tipo anterior. Con un tipo desconocido no toca nada.
func Normalize(m *entity.Movement) {
	d, err := Lookup(m.Type)
	if err != nil {
		return
	}
	if !d.RequiresReceivingEmployee {
		m.ReceivingEmployeeID = ""
	}
	if !d.RequiresAssigningEmployee {
		m.AssigningEmployeeID = ""
	}
	if !d.RequiresProject {
		m.ProjectID = ""
	}
}

// Participant devuelve el id del participante que ocupa role en m.
func Participant(m *entity.Movement, role Role) string {
	switch role {
	case RoleReceivingEmployee:
		return m.ReceivingEmployeeID
	case RoleAssigningEmployee:
		return m.AssigningEmployeeID
	case RoleProject:
		return m.ProjectID
	}
	return ""
}
