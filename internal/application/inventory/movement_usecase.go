package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// Operaciones reportadas en métricas.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// MovementUseCase registra, edita y elimina movimientos manteniendo el stock
// igual a la suma de los efectos de los movimientos almacenados.
type MovementUseCase struct {
	txRunner  TxRunner
	ledger    *StockLedger
	movements repository.MovementRepository
	employees repository.EmployeeDirectory
	projects  repository.ProjectDirectory
	metrics   Metrics
	log       *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	movements repository.MovementRepository,
	employees repository.EmployeeDirectory,
	projects repository.ProjectDirectory,
	metrics Metrics,
	log *logger.Logger,
) *MovementUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		movements: movements,
		employees: employees,
		projects:  projects,
		metrics:   metrics,
		log:       log,
	}
}

// Create valida y aplica un movimiento nuevo. Si la validación falla no se persiste nada
// y el stock no cambia.
func (uc *MovementUseCase) Create(ctx context.Context, userID string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	m := toMovement(in)
	// Los directorios se consultan antes de tomar el lock del ítem.
	snap, err := uc.participants(ctx, m)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m.ID = uuid.New().String()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.CreatedBy = userID

	var stock int
	err = uc.ledger.Exclusive(ctx, []string{m.ItemID}, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.InventoryItemRepository) error {
			if err := observe(ctx, itemRepo, m.ItemID, &snap); err != nil {
				return err
			}
			if err := movement.Validate(m, snap); err != nil {
				return err
			}
			movement.Normalize(m)
			if stock, err = uc.ledger.Apply(ctx, itemRepo, m.ItemID, m.Type, m.Quantity); err != nil {
				return err
			}
			return movRepo.Create(ctx, m)
		})
	})
	if err != nil {
		uc.rejected(OpCreate, err)
		return nil, err
	}
	uc.metrics.MovementApplied(OpCreate, m.Type)
	resp := toMovementResponse(m)
	resp.StockAfter = &stock
	return resp, nil
}

// Update revierte el efecto del movimiento guardado, valida el nuevo contenido contra
// el stock revertido y aplica el nuevo efecto. Si algo falla tras la reversión se
// re-aplica el efecto anterior antes de devolver el error.
func (uc *MovementUseCase) Update(ctx context.Context, id string, in dto.MovementRequest) (*dto.MovementResponse, error) {
	current, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	next := toMovement(in)
	snap, err := uc.participants(ctx, next)
	if err != nil {
		return nil, err
	}

	var stock int
	err = uc.ledger.Exclusive(ctx, []string{current.ItemID, next.ItemID}, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.InventoryItemRepository) error {
			old, err := movRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if old == nil {
				return domain.ErrNotFound
			}
			// Otro writer lo movió de ítem entre la lectura y el lock: el lock tomado no lo cubre.
			if old.ItemID != current.ItemID {
				return domain.ErrConcurrency
			}

			next.ID = old.ID
			next.CreatedAt = old.CreatedAt
			next.CreatedBy = old.CreatedBy
			next.UpdatedAt = time.Now().UTC()

			// Mismo ítem: el stock sin el movimiento anterior puede ser negativo de forma
			// transitoria; solo cuenta el resultado final.
			if next.ItemID == old.ItemID {
				stock, err = uc.ledger.Replace(ctx, itemRepo, old.ItemID, old.Type, old.Quantity, next.Type, next.Quantity,
					func(baseline int) error {
						snap.ItemFound = true
						snap.CurrentStock = baseline
						if err := movement.Validate(next, snap); err != nil {
							return err
						}
						movement.Normalize(next)
						return nil
					})
				if err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return &domain.ConsistencyError{MovementID: old.ID, ItemID: old.ItemID, Reason: "el ítem del movimiento ya no existe", Err: err}
					}
					return err
				}
				return movRepo.Update(ctx, next)
			}

			if _, err := uc.ledger.Reverse(ctx, itemRepo, old.ItemID, old.Type, old.Quantity); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return &domain.ConsistencyError{MovementID: old.ID, ItemID: old.ItemID, Reason: "el ítem del movimiento ya no existe", Err: err}
				}
				return err
			}

			if err := observe(ctx, itemRepo, next.ItemID, &snap); err != nil {
				return uc.compensate(ctx, itemRepo, old, err)
			}
			if err := movement.Validate(next, snap); err != nil {
				return uc.compensate(ctx, itemRepo, old, err)
			}
			movement.Normalize(next)
			if stock, err = uc.ledger.Apply(ctx, itemRepo, next.ItemID, next.Type, next.Quantity); err != nil {
				return uc.compensate(ctx, itemRepo, old, err)
			}
			return movRepo.Update(ctx, next)
		})
	})
	if err != nil {
		uc.rejected(OpUpdate, err)
		return nil, err
	}
	uc.metrics.MovementApplied(OpUpdate, next.Type)
	resp := toMovementResponse(next)
	resp.StockAfter = &stock
	return resp, nil
}

// Delete revierte el efecto del movimiento y lo elimina. Si el ítem ya no existe
// el movimiento se elimina igual y la respuesta lleva una advertencia de reconciliación.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) (*dto.DeleteMovementResponse, error) {
	current, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	var warnings []string
	err = uc.ledger.Exclusive(ctx, []string{current.ItemID}, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.InventoryItemRepository) error {
			old, err := movRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if old == nil {
				return domain.ErrNotFound
			}
			if old.ItemID != current.ItemID {
				return domain.ErrConcurrency
			}
			warnings = warnings[:0]
			if _, err := uc.ledger.Reverse(ctx, itemRepo, old.ItemID, old.Type, old.Quantity); err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				cerr := &domain.ConsistencyError{
					MovementID: old.ID,
					ItemID:     old.ItemID,
					Reason:     "el ítem ya no existe; el stock no se revirtió",
					Err:        err,
				}
				uc.log.Warn().Err(cerr).Str("movement_id", old.ID).Str("item_id", old.ItemID).Msg("movimiento eliminado sin reversión de stock")
				warnings = append(warnings, cerr.Error())
			}
			return movRepo.Delete(ctx, old.ID)
		})
	})
	if err != nil {
		uc.rejected(OpDelete, err)
		return nil, err
	}
	uc.metrics.MovementApplied(OpDelete, current.Type)
	return &dto.DeleteMovementResponse{ID: id, Deleted: true, Warnings: warnings}, nil
}

// compensate re-aplica el efecto de old tras una reversión tentativa y devuelve cause.
// Si la compensación falla el error resultante incluye un *domain.ConsistencyError.
func (uc *MovementUseCase) compensate(ctx context.Context, items repository.InventoryItemRepository, old *entity.Movement, cause error) error {
	if _, err := uc.ledger.Apply(ctx, items, old.ItemID, old.Type, old.Quantity); err != nil {
		cerr := &domain.ConsistencyError{
			MovementID: old.ID,
			ItemID:     old.ItemID,
			Reason:     "no se pudo re-aplicar el movimiento original",
			Err:        err,
		}
		uc.log.Error().Err(cerr).Str("movement_id", old.ID).Msg("compensación fallida")
		return errors.Join(cause, cerr)
	}
	return cause
}

// participants consulta en los directorios los participantes que exige el tipo.
func (uc *MovementUseCase) participants(ctx context.Context, m *entity.Movement) (movement.Snapshot, error) {
	snap := movement.Snapshot{
		Employees: map[string]bool{},
		Projects:  map[string]bool{},
	}
	d, err := movement.Lookup(m.Type)
	if err != nil {
		return snap, nil
	}
	for _, role := range d.RequiredRoles() {
		id := movement.Participant(m, role)
		if id == "" {
			continue
		}
		if role == movement.RoleProject {
			p, err := uc.projects.GetProject(ctx, id)
			if err != nil {
				return snap, err
			}
			snap.Projects[id] = p != nil
			continue
		}
		e, err := uc.employees.GetEmployee(ctx, id)
		if err != nil {
			return snap, err
		}
		snap.Employees[id] = e != nil
	}
	return snap, nil
}

// observe completa el snapshot con el ítem leído (y bloqueado) dentro de la tx.
func observe(ctx context.Context, items repository.InventoryItemRepository, itemID string, snap *movement.Snapshot) error {
	snap.ItemFound = false
	snap.CurrentStock = 0
	if itemID == "" {
		return nil
	}
	item, err := items.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item != nil {
		snap.ItemFound = true
		snap.CurrentStock = item.Stock
	}
	return nil
}

func (uc *MovementUseCase) rejected(op string, err error) {
	uc.metrics.MovementRejected(op, rejectReason(err))
}

// rejectReason clasifica un error para la etiqueta reason de las métricas.
func rejectReason(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		return ve.Fields[0].Code
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return domain.CodeInsufficientStock
	case errors.Is(err, domain.ErrConcurrency):
		return "CONCURRENCY"
	case errors.Is(err, domain.ErrConsistency):
		return "CONSISTENCY"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	}
	return "INTERNAL"
}
