package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos. Campos vacíos/nil no filtran.
// EmployeeID coincide con cualquiera de los dos roles de empleado.
type MovementFilter struct {
	ItemID     string
	Type       entity.MovementType
	EmployeeID string
	ProjectID  string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto de persistencia para movimientos.
// GetByID devuelve (nil, nil) si no existe.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, m *entity.Movement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
	// ListAll devuelve todos los movimientos (o los de un ítem) sin paginar, para la reconciliación.
	ListAll(ctx context.Context, itemID string) ([]*entity.Movement, error)
}
