package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC  *inventory.MovementUseCase
	QueryUC     *inventory.MovementQueryUseCase
	ReconcileUC *inventory.ReconcileUseCase
	ItemUC      *usecase.ItemUseCase
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	movementHandler := NewMovementHandler(deps.MovementUC, deps.QueryUC)
	api.Get("/movement-types", movementHandler.Types)

	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/export", movementHandler.Export)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Get("/:id/receipt", movementHandler.Receipt)
	movements.Post("/", writers, movementHandler.Create)
	movements.Put("/:id", writers, movementHandler.Update)
	movements.Delete("/:id", writers, movementHandler.Delete)

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", writers, itemHandler.Create)
	items.Put("/:id", writers, itemHandler.Update)
	items.Delete("/:id", writers, itemHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.ReconcileUC)
	api.Post("/inventory/reconcile", RequireRole(RoleAdmin), inventoryHandler.Reconcile)
}
