package inventory

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

const reconcileBatch = 500

// ReconcileUseCase recalcula el stock de cada ítem desde sus movimientos y reporta
// (o corrige) las diferencias y los movimientos cuyo ítem ya no existe.
type ReconcileUseCase struct {
	txRunner  TxRunner
	ledger    *StockLedger
	items     repository.InventoryItemRepository
	movements repository.MovementRepository
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	items repository.InventoryItemRepository,
	movements repository.MovementRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, ledger: ledger, items: items, movements: movements, log: log}
}

// Run revisa todos los ítems. Con fix=true ajusta el stock almacenado al recalculado,
// dentro del lock del ítem, salvo que el historial dé un valor negativo.
func (uc *ReconcileUseCase) Run(ctx context.Context, fix bool) (*dto.ReconcileReport, error) {
	report := &dto.ReconcileReport{
		Drifts:          []dto.StockDriftDTO{},
		OrphanMovements: []string{},
		FixRequested:    fix,
	}
	known := map[string]bool{}

	for offset := 0; ; offset += reconcileBatch {
		page, err := uc.items.List(ctx, reconcileBatch, offset)
		if err != nil {
			return nil, err
		}
		for _, item := range page {
			known[item.ID] = true
			drift, err := uc.checkItem(ctx, item.ID, fix)
			if err != nil {
				return nil, err
			}
			report.ItemsChecked++
			if drift != nil {
				report.Drifts = append(report.Drifts, *drift)
			}
		}
		if len(page) < reconcileBatch {
			break
		}
	}

	all, err := uc.movements.ListAll(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if known[m.ItemID] {
			continue
		}
		item, err := uc.items.GetByID(ctx, m.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			known[m.ItemID] = true
			continue
		}
		report.OrphanMovements = append(report.OrphanMovements, m.ID)
	}

	uc.log.Info().
		Int("items_checked", report.ItemsChecked).
		Int("drifts", len(report.Drifts)).
		Int("orphans", len(report.OrphanMovements)).
		Bool("fix", fix).
		Msg("reconciliación de stock")
	return report, nil
}

func (uc *ReconcileUseCase) checkItem(ctx context.Context, itemID string, fix bool) (*dto.StockDriftDTO, error) {
	var drift *dto.StockDriftDTO
	err := uc.ledger.Exclusive(ctx, []string{itemID}, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.InventoryItemRepository) error {
			item, err := itemRepo.GetForUpdate(ctx, itemID)
			if err != nil || item == nil {
				return err
			}
			list, err := movRepo.ListAll(ctx, itemID)
			if err != nil {
				return err
			}
			expected := ExpectedStock(list)
			if expected == item.Stock {
				return nil
			}
			drift = &dto.StockDriftDTO{
				ItemID:        item.ID,
				ItemCode:      item.Code,
				StoredStock:   item.Stock,
				ExpectedStock: expected,
			}
			switch {
			case !fix:
			case expected < 0:
				drift.Note = "el historial de movimientos da stock negativo; requiere corrección manual"
			default:
				if err := uc.ledger.Reset(ctx, itemRepo, item.ID, expected); err != nil {
					return err
				}
				drift.Fixed = true
				uc.log.Warn().Str("item_id", item.ID).Int("stored", item.Stock).Int("expected", expected).Msg("stock corregido por reconciliación")
			}
			return nil
		})
	})
	return drift, err
}

// ExpectedStock suma los efectos de los movimientos. Tipos desconocidos no aportan.
func ExpectedStock(list []*entity.Movement) int {
	total := 0
	for _, m := range list {
		d, err := movement.Lookup(m.Type)
		if err != nil {
			continue
		}
		total += d.Delta(m.Quantity)
	}
	return total
}
