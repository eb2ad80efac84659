package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
)

// InventoryHandler operaciones de mantenimiento del inventario (protegido, solo admin).
type InventoryHandler struct {
	reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(reconcile *inventory.ReconcileUseCase) *InventoryHandler {
	return &InventoryHandler{reconcile: reconcile}
}

// Reconcile godoc
// @Summary      Reconciliar stock
// @Description  Recalcula el stock de cada ítem desde sus movimientos. Con fix=true corrige las diferencias.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        fix  query  bool  false  "Corregir diferencias"  default(false)
// @Success      200  {object}  dto.ReconcileReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.reconcile.Run(c.UserContext(), c.QueryBool("fix", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
