package entity

import "time"

// MovementType identifica el tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeStockIn            MovementType = "STOCK_IN"             // entrada de stock
	MovementTypeStockOut           MovementType = "STOCK_OUT"            // salida de stock
	MovementTypeAssignToEmployee   MovementType = "ASSIGN_TO_EMPLOYEE"   // asignación a empleado
	MovementTypeAssignToProject    MovementType = "ASSIGN_TO_PROJECT"    // asignación a proyecto
	MovementTypeReturnFromEmployee MovementType = "RETURN_FROM_EMPLOYEE" // devolución de empleado
	MovementTypeReturnFromProject  MovementType = "RETURN_FROM_PROJECT"  // devolución de proyecto
	MovementTypeLoss               MovementType = "LOSS"                 // pérdida
	MovementTypeMaintenance        MovementType = "MAINTENANCE"          // envío a mantenimiento
)

// Movement representa un movimiento registrado sobre un ítem.
// Los participantes vacíos significan "no aplica" y se persisten como NULL.
type Movement struct {
	ID                  string
	ItemID              string
	Type                MovementType
	Quantity            int // siempre positiva; el signo lo define el tipo
	MovementDate        time.Time
	Note                string
	AssigningEmployeeID string
	ReceivingEmployeeID string
	ProjectID           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CreatedBy           string
}
