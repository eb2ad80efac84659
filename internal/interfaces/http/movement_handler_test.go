package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/application/usecase"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-movimientos/internal/interfaces/http"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma el router completo sobre el store en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(entity.Employee{ID: "emp-ana", FullName: "Ana Pérez", Active: true})
	store.PutProject(entity.Project{ID: "proj-1", Name: "Puente Norte", Active: true})

	dir := store.Directory()
	tx := memory.NewTxRunner(store)
	ledger := inventory.NewStockLedger(lock.NewKeyedLocker(), time.Second, inventory.NopMetrics{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		MovementUC:  inventory.NewMovementUseCase(tx, ledger, store.Movements(), dir, dir, inventory.NopMetrics{}, logger.NewNop()),
		QueryUC:     inventory.NewMovementQueryUseCase(store.Movements(), store.Items(), dir, dir, nil, nil),
		ReconcileUC: inventory.NewReconcileUseCase(tx, ledger, store.Items(), store.Movements(), logger.NewNop()),
		ItemUC:      usecase.NewItemUseCase(store.Items(), ledger),
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createItem(t *testing.T, app *fiber.App, code string) string {
	t.Helper()
	resp := send(t, app, http.MethodPost, "/api/items", apphttp.RoleAdmin, dto.CreateItemRequest{Code: code, Name: "Taladro"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var item dto.ItemResponse
	decode(t, resp, &item)
	return item.ID
}

func stockIn(itemID string, qty int) dto.MovementRequest {
	return dto.MovementRequest{ItemID: itemID, Type: "STOCK_IN", Quantity: qty, MovementDate: "2024-05-10"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_CrearDevuelve201ConStockResultante(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")

	resp := send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, stockIn(itemID, 5))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.MovementResponse
	decode(t, resp, &out)
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.StockAfter)
	assert.Equal(t, 5, *out.StockAfter)
	assert.Equal(t, testUserID, out.CreatedBy)
}

func TestMovements_StockInsuficienteEs409ConDetalle(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")
	send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, stockIn(itemID, 3))

	resp := send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, dto.MovementRequest{
		ItemID: itemID, Type: "LOSS", Quantity: 4, MovementDate: "2024-05-11",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Fields[0].Code)
	require.NotNil(t, out.Fields[0].Available)
	require.NotNil(t, out.Fields[0].Requested)
	assert.Equal(t, 3, *out.Fields[0].Available)
	assert.Equal(t, 4, *out.Fields[0].Requested)
}

func TestMovements_ErroresDeCampoSon400(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")

	resp := send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, dto.MovementRequest{
		ItemID: itemID, Type: "ASSIGN_TO_EMPLOYEE", Quantity: 0, MovementDate: "no-es-fecha",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Len(t, out.Fields, 3)
}

func TestMovements_RolConsultaNoPuedeEscribir(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")

	resp := send(t, app, http.MethodPost, "/api/movements", "consulta", stockIn(itemID, 1))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/movements", "consulta", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMovements_SinTokenEs401(t *testing.T) {
	app := buildAPI(t)
	resp := send(t, app, http.MethodGet, "/api/movement-types", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMovements_EditarYEliminar(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")
	send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, stockIn(itemID, 10))

	resp := send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, dto.MovementRequest{
		ItemID: itemID, Type: "ASSIGN_TO_EMPLOYEE", Quantity: 2, MovementDate: "2024-05-11",
		ReceivingEmployeeID: "emp-ana",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created dto.MovementResponse
	decode(t, resp, &created)

	// 10 - 2 = 8; editar a 12 excede y deja el stock en 8.
	upd := dto.MovementRequest{
		ItemID: itemID, Type: "ASSIGN_TO_EMPLOYEE", Quantity: 12, MovementDate: "2024-05-11",
		ReceivingEmployeeID: "emp-ana",
	}
	resp = send(t, app, http.MethodPut, "/api/movements/"+created.ID, apphttp.RoleBodeguero, upd)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var item dto.ItemResponse
	decode(t, send(t, app, http.MethodGet, "/api/items/"+itemID, apphttp.RoleAdmin, nil), &item)
	assert.Equal(t, 8, item.Stock)

	resp = send(t, app, http.MethodDelete, "/api/movements/"+created.ID, apphttp.RoleBodeguero, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var del dto.DeleteMovementResponse
	decode(t, resp, &del)
	assert.True(t, del.Deleted)
	assert.Empty(t, del.Warnings)

	decode(t, send(t, app, http.MethodGet, "/api/items/"+itemID, apphttp.RoleAdmin, nil), &item)
	assert.Equal(t, 10, item.Stock)

	resp = send(t, app, http.MethodGet, "/api/movements/"+created.ID, apphttp.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMovements_ListarConEtiquetas(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")
	send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, stockIn(itemID, 4))
	send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, dto.MovementRequest{
		ItemID: itemID, Type: "ASSIGN_TO_PROJECT", Quantity: 1, MovementDate: "2024-05-12", ProjectID: "proj-1",
	})

	resp := send(t, app, http.MethodGet, "/api/movements?project_id=proj-1", apphttp.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.MovementListResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Puente Norte", out.Items[0].ProjectName)
	assert.Equal(t, "TAL-01", out.Items[0].ItemCode)

	resp = send(t, app, http.MethodGet, "/api/movements?from=ayer", apphttp.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMovementTypes_PublicaOchoTipos(t *testing.T) {
	app := buildAPI(t)
	resp := send(t, app, http.MethodGet, "/api/movement-types", "consulta", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out []dto.MovementTypeResponse
	decode(t, resp, &out)
	assert.Len(t, out, 8)
}

func TestItems_CodigoDuplicadoEs409(t *testing.T) {
	app := buildAPI(t)
	createItem(t, app, "TAL-01")
	resp := send(t, app, http.MethodPost, "/api/items", apphttp.RoleAdmin, dto.CreateItemRequest{Code: "TAL-01", Name: "Otro"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestReconcile_SoloAdmin(t *testing.T) {
	app := buildAPI(t)
	itemID := createItem(t, app, "TAL-01")
	send(t, app, http.MethodPost, "/api/movements", apphttp.RoleBodeguero, stockIn(itemID, 2))

	resp := send(t, app, http.MethodPost, "/api/inventory/reconcile", apphttp.RoleBodeguero, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = send(t, app, http.MethodPost, "/api/inventory/reconcile?fix=true", apphttp.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.ReconcileReport
	decode(t, resp, &out)
	assert.Equal(t, 1, out.ItemsChecked)
	assert.Empty(t, out.Drifts)
	assert.True(t, out.FixRequested)
}
