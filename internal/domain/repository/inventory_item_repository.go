package repository

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para ítems de inventario (DIP).
// Get* devuelven (nil, nil) si el ítem no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	// Update modifica los datos descriptivos; nunca el stock.
	Update(ctx context.Context, item *entity.InventoryItem) error
	// UpdateStock es de uso exclusivo del StockLedger.
	UpdateStock(ctx context.Context, id string, stock int) error
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}
