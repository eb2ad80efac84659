package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementa MovementRepository sobre el Store.
type MovementRepo struct {
	s    *Store
	undo *undoLog
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.movements[m.ID] = *m
	id := m.ID
	r.undo.record(func() { delete(r.s.movements, id) })
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.movements[m.ID]
	if !ok {
		return fmt.Errorf("update movement %s: %w", m.ID, domain.ErrNotFound)
	}
	r.s.movements[m.ID] = *m
	r.undo.record(func() { r.s.movements[prev.ID] = prev })
	return nil
}

func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.movements[id]
	if !ok {
		return fmt.Errorf("delete movement %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.movements, id)
	r.undo.record(func() { r.s.movements[id] = prev })
	return nil
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	list := make([]*entity.Movement, 0)
	for _, m := range r.s.movements {
		if matches(m, f) {
			m := m
			list = append(list, &m)
		}
	}
	r.s.mu.RUnlock()
	sortMovements(list)
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *MovementRepo) ListAll(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{ItemID: itemID})
}

func matches(m entity.Movement, f repository.MovementFilter) bool {
	if f.ItemID != "" && m.ItemID != f.ItemID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.EmployeeID != "" && m.ReceivingEmployeeID != f.EmployeeID && m.AssigningEmployeeID != f.EmployeeID {
		return false
	}
	if f.ProjectID != "" && m.ProjectID != f.ProjectID {
		return false
	}
	if f.From != nil && m.MovementDate.Before(*f.From) {
		return false
	}
	if f.To != nil && m.MovementDate.After(*f.To) {
		return false
	}
	return true
}

// sortMovements ordena por fecha de movimiento y luego creación, más recientes primero.
func sortMovements(list []*entity.Movement) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.After(b.MovementDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
