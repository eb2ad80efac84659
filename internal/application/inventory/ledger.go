package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// DefaultOperationTimeout tope de una operación del ledger, incluida la espera del lock.
const DefaultOperationTimeout = 750 * time.Millisecond

const lockKeyPrefix = "inventory:item:"

// StockLedger es el único componente que modifica InventoryItem.Stock.
// Apply/Reverse deben llamarse dentro de Exclusive para el ítem afectado y con
// repositorios atados a la transacción en curso.
type StockLedger struct {
	locker  Locker
	timeout time.Duration
	metrics Metrics
}

// NewStockLedger construye el ledger. timeout <= 0 usa DefaultOperationTimeout.
func NewStockLedger(locker Locker, timeout time.Duration, metrics Metrics) *StockLedger {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &StockLedger{locker: locker, timeout: timeout, metrics: metrics}
}

// Exclusive ejecuta fn con los locks de todos los ítems tomados. Las claves se
// deduplican y ordenan para que dos ediciones cruzadas no se bloqueen entre sí.
// Un lock no obtenido o un timeout se devuelven como domain.ErrConcurrency.
func (l *StockLedger) Exclusive(ctx context.Context, itemIDs []string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	err := l.lockAll(ctx, lockKeys(itemIDs), fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConcurrency):
		l.metrics.LockTimeout()
		return err
	case errors.Is(err, context.DeadlineExceeded):
		l.metrics.LockTimeout()
		return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
	}
	return err
}

func (l *StockLedger) lockAll(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	if len(keys) == 0 {
		return fn(ctx)
	}
	return l.locker.WithLock(ctx, keys[0], func(ctx context.Context) error {
		return l.lockAll(ctx, keys[1:], fn)
	})
}

func lockKeys(itemIDs []string) []string {
	seen := make(map[string]struct{}, len(itemIDs))
	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, lockKeyPrefix+id)
	}
	sort.Strings(keys)
	return keys
}

// Apply suma al stock el efecto del movimiento y devuelve el stock resultante.
// Si el resultado fuera negativo devuelve *domain.InsufficientStockError sin escribir.
func (l *StockLedger) Apply(ctx context.Context, items repository.InventoryItemRepository, itemID string, typ entity.MovementType, quantity int) (int, error) {
	delta, err := signedDelta(typ, quantity)
	if err != nil {
		return 0, err
	}
	return l.shift(ctx, items, itemID, delta)
}

// Reverse deshace el efecto de Apply con los mismos argumentos.
func (l *StockLedger) Reverse(ctx context.Context, items repository.InventoryItemRepository, itemID string, typ entity.MovementType, quantity int) (int, error) {
	delta, err := signedDelta(typ, quantity)
	if err != nil {
		return 0, err
	}
	return l.shift(ctx, items, itemID, -delta)
}

// Replace sustituye en el mismo ítem el efecto de un movimiento (oldTyp, oldQty) por el de
// otro (newTyp, newQty) con una única escritura. El stock base, sin el efecto anterior, no
// se persiste: check lo recibe para validar el nuevo movimiento y solo se rechaza si el
// stock final queda negativo.
func (l *StockLedger) Replace(
	ctx context.Context,
	items repository.InventoryItemRepository,
	itemID string,
	oldTyp entity.MovementType, oldQty int,
	newTyp entity.MovementType, newQty int,
	check func(baseline int) error,
) (int, error) {
	oldDelta, err := signedDelta(oldTyp, oldQty)
	if err != nil {
		return 0, err
	}
	item, err := items.GetForUpdate(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	baseline := item.Stock - oldDelta
	if check != nil {
		if err := check(baseline); err != nil {
			return item.Stock, err
		}
	}
	newDelta, err := signedDelta(newTyp, newQty)
	if err != nil {
		return item.Stock, err
	}
	next := baseline + newDelta
	if next < 0 {
		return item.Stock, &domain.InsufficientStockError{
			ItemID:    itemID,
			Available: item.Stock,
			Requested: item.Stock - next,
		}
	}
	if next == item.Stock {
		return next, nil
	}
	if err := items.UpdateStock(ctx, itemID, next); err != nil {
		return 0, err
	}
	return next, nil
}

// Reset fija el stock de un ítem. Solo lo usa la reconciliación.
func (l *StockLedger) Reset(ctx context.Context, items repository.InventoryItemRepository, itemID string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock negativo %d", domain.ErrInvalidInput, stock)
	}
	item, err := items.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	if item.Stock == stock {
		return nil
	}
	return items.UpdateStock(ctx, itemID, stock)
}

func signedDelta(typ entity.MovementType, quantity int) (int, error) {
	d, err := movement.Lookup(typ)
	if err != nil {
		return 0, err
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, quantity)
	}
	return d.Delta(quantity), nil
}

func (l *StockLedger) shift(ctx context.Context, items repository.InventoryItemRepository, itemID string, delta int) (int, error) {
	item, err := items.GetForUpdate(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, fmt.Errorf("ítem %s: %w", itemID, domain.ErrNotFound)
	}
	// MAINTENANCE: se valida el ítem pero no se escribe.
	if delta == 0 {
		return item.Stock, nil
	}
	next := item.Stock + delta
	if next < 0 {
		return item.Stock, &domain.InsufficientStockError{
			ItemID:    itemID,
			Available: item.Stock,
			Requested: -delta,
		}
	}
	if err := items.UpdateStock(ctx, itemID, next); err != nil {
		return 0, err
	}
	return next, nil
}
