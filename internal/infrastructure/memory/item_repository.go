package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*ItemRepo)(nil)

// ItemRepo implementa InventoryItemRepository sobre el Store.
type ItemRepo struct {
	s    *Store
	undo *undoLog
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, it := range r.s.items {
		if it.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = *item
	id := item.ID
	r.undo.record(func() { delete(r.s.items, id) })
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetForUpdate equivale a GetByID; el bloqueo lo aporta el lock por ítem.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.Code == code {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.items[item.ID]
	if !ok {
		return fmt.Errorf("update item %s: %w", item.ID, domain.ErrNotFound)
	}
	next := *item
	next.Stock = prev.Stock
	r.s.items[item.ID] = next
	r.undo.record(func() { r.s.items[prev.ID] = prev })
	return nil
}

func (r *ItemRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.items[id]
	if !ok {
		return fmt.Errorf("update stock %s: %w", id, domain.ErrNotFound)
	}
	next := prev
	next.Stock = stock
	next.UpdatedAt = time.Now().UTC()
	r.s.items[id] = next
	r.undo.record(func() { r.s.items[id] = prev })
	return nil
}

func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	list := make([]*entity.InventoryItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		it := it
		list = append(list, &it)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return paginate(list, limit, offset), nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.items[id]
	if !ok {
		return nil
	}
	delete(r.s.items, id)
	r.undo.record(func() { r.s.items[id] = prev })
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
