package dto

import "time"

// DateLayout formato de fecha de los movimientos en la API.
const DateLayout = "2006-01-02"

// MovementRequest body para POST /api/movements y PUT /api/movements/:id.
type MovementRequest struct {
	ItemID              string `json:"item_id"`
	Type                string `json:"type"`
	Quantity            int    `json:"quantity"`
	MovementDate        string `json:"movement_date"` // YYYY-MM-DD
	Note                string `json:"note,omitempty"`
	ReceivingEmployeeID string `json:"receiving_employee_id,omitempty"`
	AssigningEmployeeID string `json:"assigning_employee_id,omitempty"`
	ProjectID           string `json:"project_id,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                  string    `json:"id"`
	ItemID              string    `json:"item_id"`
	Type                string    `json:"type"`
	Quantity            int       `json:"quantity"`
	MovementDate        string    `json:"movement_date"`
	Note                string    `json:"note,omitempty"`
	ReceivingEmployeeID string    `json:"receiving_employee_id,omitempty"`
	AssigningEmployeeID string    `json:"assigning_employee_id,omitempty"`
	ProjectID           string    `json:"project_id,omitempty"`
	StockAfter          *int      `json:"stock_after,omitempty"` // stock del ítem tras aplicar el movimiento
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	CreatedBy           string    `json:"created_by,omitempty"`
}

// MovementDetail movimiento con las etiquetas de ítem, empleados y proyecto para mostrar.
type MovementDetail struct {
	MovementResponse
	ItemCode              string `json:"item_code"`
	ItemName              string `json:"item_name"`
	ReceivingEmployeeName string `json:"receiving_employee_name,omitempty"`
	AssigningEmployeeName string `json:"assigning_employee_name,omitempty"`
	ProjectName           string `json:"project_name,omitempty"`
}

// MovementListResponse lista paginada de movimientos con etiquetas.
type MovementListResponse struct {
	Items []MovementDetail `json:"items"`
	Page  PageResponse     `json:"page"`
}

// MovementFilterRequest filtros de GET /api/movements.
type MovementFilterRequest struct {
	PageRequest
	ItemID     string `query:"item_id"`
	Type       string `query:"type"`
	EmployeeID string `query:"employee_id"`
	ProjectID  string `query:"project_id"`
	From       string `query:"from"` // YYYY-MM-DD
	To         string `query:"to"`   // YYYY-MM-DD
}

// DeleteMovementResponse resultado de eliminar un movimiento.
// Warnings no vacío indica que el stock quedó pendiente de reconciliación.
type DeleteMovementResponse struct {
	ID       string   `json:"id"`
	Deleted  bool     `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

// MovementTypeResponse entrada del catálogo de tipos de movimiento.
type MovementTypeResponse struct {
	Type                      string `json:"type"`
	Label                     string `json:"label"`
	DeltaSign                 int    `json:"delta_sign"`
	RequiresReceivingEmployee bool   `json:"requires_receiving_employee"`
	RequiresAssigningEmployee bool   `json:"requires_assigning_employee"`
	RequiresProject           bool   `json:"requires_project"`
	EnforcesStockSufficiency  bool   `json:"enforces_stock_sufficiency"`
}
