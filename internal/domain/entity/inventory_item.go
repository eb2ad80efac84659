package entity

import "time"

// Estados de conservación habituales de un ítem físico.
const (
	ConservationNew     = "nuevo"
	ConservationGood    = "bueno"
	ConservationFair    = "regular"
	ConservationDamaged = "dañado"
)

// InventoryItem representa un bien físico inventariado.
// Stock es la cantidad disponible y solo la modifica el StockLedger a través de movimientos.
type InventoryItem struct {
	ID                string
	Code              string // código único asignado por el usuario
	Name              string
	Stock             int
	UnitOfMeasure     string
	ConservationState string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
