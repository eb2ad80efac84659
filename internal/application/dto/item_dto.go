package dto

import "time"

// CreateItemRequest entrada para crear un ítem. El stock inicia en 0 y solo cambia vía movimientos.
type CreateItemRequest struct {
	Code              string `json:"code" validate:"required,min=1,max=100"`
	Name              string `json:"name" validate:"required,min=1,max=200"`
	UnitOfMeasure     string `json:"unit_of_measure"`
	ConservationState string `json:"conservation_state"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin Stock).
type UpdateItemRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	UnitOfMeasure     *string `json:"unit_of_measure"`
	ConservationState *string `json:"conservation_state"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Stock             int       `json:"stock"`
	UnitOfMeasure     string    `json:"unit_of_measure"`
	ConservationState string    `json:"conservation_state"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
