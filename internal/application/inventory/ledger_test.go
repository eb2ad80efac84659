package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/lock"
)

func TestLedger_IdaYVueltaEsNoOpParaTodoTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := f.store.Items()
	id := f.addItemWithStock(t, "A", 5)

	for _, typ := range movement.Types() {
		t.Run(string(typ), func(t *testing.T) {
			_, err := f.ledger.Apply(ctx, items, id, typ, 2)
			require.NoError(t, err)
			after, err := f.ledger.Reverse(ctx, items, id, typ, 2)
			require.NoError(t, err)
			assert.Equal(t, 5, after)
			assert.Equal(t, 5, f.stock(t, id))
		})
	}
}

func TestLedger_ApplyDevuelveNuevoStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addItemWithStock(t, "A", 5)

	got, err := f.ledger.Apply(ctx, f.store.Items(), id, entity.MovementTypeLoss, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = f.ledger.Apply(ctx, f.store.Items(), id, entity.MovementTypeReturnFromProject, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestLedger_NoPermiteStockNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addItemWithStock(t, "A", 1)

	_, err := f.ledger.Apply(ctx, f.store.Items(), id, entity.MovementTypeStockOut, 2)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 1, ise.Available)
	assert.Equal(t, 2, ise.Requested)
	assert.Equal(t, 1, f.stock(t, id), "el stock no cambia al rechazar")

	// Revertir una entrada ya consumida también dejaría el stock negativo.
	_, err = f.ledger.Reverse(ctx, f.store.Items(), id, entity.MovementTypeStockIn, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, id))
}

func TestLedger_MantenimientoNoModificaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addItemWithStock(t, "A", 4)

	got, err := f.ledger.Apply(ctx, f.store.Items(), id, entity.MovementTypeMaintenance, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
	got, err = f.ledger.Reverse(ctx, f.store.Items(), id, entity.MovementTypeMaintenance, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	_, err = f.ledger.Apply(ctx, f.store.Items(), "item-inexistente", entity.MovementTypeMaintenance, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound, "mantenimiento también pasa por el ledger")
}

func TestLedger_RechazaEntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addItem(t, "A")

	_, err := f.ledger.Apply(ctx, f.store.Items(), id, entity.MovementTypeStockIn, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.Apply(ctx, f.store.Items(), id, "TRANSFER", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType)
	assert.ErrorIs(t, f.ledger.Reset(ctx, f.store.Items(), id, -1), domain.ErrInvalidInput)
}

type keyRecorder struct {
	keys []string
}

func (r *keyRecorder) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	r.keys = append(r.keys, key)
	return fn(ctx)
}

func TestLedger_ExclusiveOrdenaYDeduplicaClaves(t *testing.T) {
	rec := &keyRecorder{}
	l := inventory.NewStockLedger(rec, time.Second, nil)

	err := l.Exclusive(context.Background(), []string{"b", "a", "b", ""}, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory:item:a", "inventory:item:b"}, rec.keys)
}

func TestLedger_ExclusiveTimeoutEsErrConcurrency(t *testing.T) {
	metrics := &recordingMetrics{}
	l := inventory.NewStockLedger(lock.NewKeyedLocker(), 30*time.Millisecond, metrics)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- l.Exclusive(context.Background(), []string{"a"}, func(context.Context) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	err := l.Exclusive(context.Background(), []string{"a"}, func(context.Context) error {
		t.Fatal("no debe ejecutarse sin el lock")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)
	assert.Equal(t, 1, metrics.lockTimeouts)

	close(release)
	assert.NoError(t, <-done)
}
