package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

const (
	empAna     = "emp-ana"
	empLuis    = "emp-luis"
	projPuente = "proj-puente"
	testUser   = "user-1"
)

type fixture struct {
	store   *memory.Store
	ledger  *inventory.StockLedger
	metrics *recordingMetrics
	uc      *inventory.MovementUseCase
	query   *inventory.MovementQueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(entity.Employee{ID: empAna, FullName: "Ana Pérez", Active: true})
	store.PutEmployee(entity.Employee{ID: empLuis, FullName: "Luis Gómez", Active: true})
	store.PutProject(entity.Project{ID: projPuente, Name: "Puente Norte", Active: true})

	metrics := &recordingMetrics{}
	ledger := inventory.NewStockLedger(lock.NewKeyedLocker(), 2*time.Second, metrics)
	dir := store.Directory()
	return &fixture{
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		uc: inventory.NewMovementUseCase(
			memory.NewTxRunner(store), ledger, store.Movements(), dir, dir, metrics, logger.NewNop(),
		),
		query: inventory.NewMovementQueryUseCase(store.Movements(), store.Items(), dir, dir, nil, nil),
	}
}

// addItem crea un ítem con stock 0.
func (f *fixture) addItem(t *testing.T, code string) string {
	t.Helper()
	id := "item-" + code
	now := time.Now().UTC()
	require.NoError(t, f.store.Items().Create(context.Background(), &entity.InventoryItem{
		ID: id, Code: code, Name: "Ítem " + code, UnitOfMeasure: "unidad",
		ConservationState: entity.ConservationNew, CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

// addItemWithStock crea el ítem y registra una entrada por qty, de modo que el stock
// coincide con el historial.
func (f *fixture) addItemWithStock(t *testing.T, code string, qty int) string {
	t.Helper()
	id := f.addItem(t, code)
	if qty > 0 {
		f.create(t, request(id, entity.MovementTypeStockIn, qty))
	}
	return id
}

func (f *fixture) create(t *testing.T, in dto.MovementRequest) *dto.MovementResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), testUser, in)
	require.NoError(t, err)
	return resp
}

func (f *fixture) stock(t *testing.T, itemID string) int {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

func (f *fixture) movementCount(t *testing.T, itemID string) int {
	t.Helper()
	list, err := f.store.Movements().ListAll(context.Background(), itemID)
	require.NoError(t, err)
	return len(list)
}

func request(itemID string, typ entity.MovementType, qty int) dto.MovementRequest {
	in := dto.MovementRequest{
		ItemID:       itemID,
		Type:         string(typ),
		Quantity:     qty,
		MovementDate: "2024-05-10",
	}
	switch typ {
	case entity.MovementTypeAssignToEmployee:
		in.ReceivingEmployeeID = empAna
	case entity.MovementTypeReturnFromEmployee:
		in.AssigningEmployeeID = empAna
	case entity.MovementTypeAssignToProject, entity.MovementTypeReturnFromProject:
		in.ProjectID = projPuente
	}
	return in
}

type recordingMetrics struct {
	mu           sync.Mutex
	applied      map[string]int
	rejected     map[string]int
	lockTimeouts int
}

func (m *recordingMetrics) MovementApplied(op string, typ entity.MovementType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applied == nil {
		m.applied = map[string]int{}
	}
	m.applied[op+"/"+string(typ)]++
}

func (m *recordingMetrics) MovementRejected(op, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[op+"/"+reason]++
}

func (m *recordingMetrics) LockTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockTimeouts++
}

func (m *recordingMetrics) rejectedCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected[key]
}
