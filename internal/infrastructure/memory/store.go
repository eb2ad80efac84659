// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_BACKEND=memory para desarrollo local.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// Store guarda ítems, movimientos y los directorios de empleados y proyectos.
type Store struct {
	mu        sync.RWMutex
	items     map[string]entity.InventoryItem
	movements map[string]entity.Movement
	employees map[string]entity.Employee
	projects  map[string]entity.Project
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]entity.InventoryItem),
		movements: make(map[string]entity.Movement),
		employees: make(map[string]entity.Employee),
		projects:  make(map[string]entity.Project),
	}
}

// PutEmployee registra un empleado en el directorio.
func (s *Store) PutEmployee(e entity.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// PutProject registra un proyecto en el directorio.
func (s *Store) PutProject(p entity.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Directory directorio de empleados y proyectos respaldado por el store.
func (s *Store) Directory() *Directory { return &Directory{s: s} }

// undoLog acumula las acciones inversas de las escrituras hechas en una tx.
type undoLog struct {
	steps []func()
}

func (u *undoLog) record(step func()) {
	if u != nil {
		u.steps = append(u.steps, step)
	}
}

func (u *undoLog) rollback() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i]()
	}
}

// TxRunner simula una transacción: si fn falla, deshace sus escrituras en orden inverso.
// No aísla lecturas; la exclusión por ítem la da el StockLedger.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a un registro de deshacer. Un ctx vencido al
// terminar fn equivale a un commit fallido: se deshace todo y se devuelve ctx.Err().
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	undo := &undoLog{}
	err := fn(&MovementRepo{s: r.s, undo: undo}, &ItemRepo{s: r.s, undo: undo})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.s.mu.Lock()
		undo.rollback()
		r.s.mu.Unlock()
		return err
	}
	return nil
}
