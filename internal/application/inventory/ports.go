package inventory

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error, ningún cambio hecho a través de esos repositorios queda confirmado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}

// Locker da exclusión mutua por clave. fn recibe un contexto que expira con el lock.
// Si el lock no se obtiene antes de que venza ctx, devuelve un error que envuelve domain.ErrConcurrency.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Metrics contadores de operaciones sobre movimientos.
type Metrics interface {
	MovementApplied(operation string, typ entity.MovementType)
	MovementRejected(operation, reason string)
	LockTimeout()
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) MovementApplied(string, entity.MovementType) {}
func (NopMetrics) MovementRejected(string, string)            {}
func (NopMetrics) LockTimeout()                                {}

// MovementExporter genera un archivo descargable con el listado detallado de movimientos.
type MovementExporter interface {
	Export(ctx context.Context, rows []dto.MovementDetail) ([]byte, error)
}

// ReceiptGenerator genera el comprobante de entrega/recepción de un movimiento.
type ReceiptGenerator interface {
	Receipt(ctx context.Context, d *dto.MovementDetail) ([]byte, error)
}
