package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems de inventario. El stock se maneja solo vía movimientos.
type ItemUseCase struct {
	repo   repository.InventoryItemRepository
	ledger *inventory.StockLedger
}

// NewItemUseCase construye el caso de uso. ledger aporta el lock por ítem que
// comparten los movimientos y el borrado.
func NewItemUseCase(repo repository.InventoryItemRepository, ledger *inventory.StockLedger) *ItemUseCase {
	return &ItemUseCase{repo: repo, ledger: ledger}
}

// Create crea un nuevo ítem. Stock inicia en 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	state, err := conservationState(in.ConservationState)
	if err != nil {
		return nil, err
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = "unidad"
	}
	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		Code:              in.Code,
		Name:              in.Name,
		Stock:             0,
		UnitOfMeasure:     in.UnitOfMeasure,
		ConservationState: state,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza los datos descriptivos de un ítem. No permite modificar Stock.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.UnitOfMeasure != nil {
		item.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.ConservationState != nil {
		state, err := conservationState(*in.ConservationState)
		if err != nil {
			return nil, err
		}
		item.ConservationState = state
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un ítem bajo su lock, de modo que no se cruza con un movimiento en
// curso. Sus movimientos quedan huérfanos y los reporta la reconciliación.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.ledger.Exclusive(ctx, []string{id}, func(ctx context.Context) error {
		item, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return uc.repo.Delete(ctx, id)
	})
}

func conservationState(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return entity.ConservationNew, nil
	case entity.ConservationNew, entity.ConservationGood, entity.ConservationFair, entity.ConservationDamaged:
		return s, nil
	}
	return "", domain.ErrInvalidInput
}

func toItemResponse(it *entity.InventoryItem) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                it.ID,
		Code:              it.Code,
		Name:              it.Name,
		Stock:             it.Stock,
		UnitOfMeasure:     it.UnitOfMeasure,
		ConservationState: it.ConservationState,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}
