package movement_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
)

const (
	testItemID     = "item-1"
	testEmployeeID = "emp-1"
	testProjectID  = "proj-1"
)

func snapshot(stock int) movement.Snapshot {
	return movement.Snapshot{
		ItemFound:    true,
		CurrentStock: stock,
		Employees:    map[string]bool{testEmployeeID: true},
		Projects:     map[string]bool{testProjectID: true},
	}
}

func newMovement(typ entity.MovementType, qty int) *entity.Movement {
	return &entity.Movement{
		ItemID:       testItemID,
		Type:         typ,
		Quantity:     qty,
		MovementDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

// withParticipants completa los participantes requeridos por el tipo.
func withParticipants(m *entity.Movement) *entity.Movement {
	d, _ := movement.Lookup(m.Type)
	for _, r := range d.RequiredRoles() {
		switch r {
		case movement.RoleReceivingEmployee:
			m.ReceivingEmployeeID = testEmployeeID
		case movement.RoleAssigningEmployee:
			m.AssigningEmployeeID = testEmployeeID
		case movement.RoleProject:
			m.ProjectID = testProjectID
		}
	}
	return m
}

func validationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba ValidationError, se obtuvo %v", err)
	return ve
}

func TestValidate_ItemInexistente(t *testing.T) {
	s := snapshot(10)
	s.ItemFound = false
	err := movement.Validate(newMovement(entity.MovementTypeStockIn, 1), s)

	ve := validationError(t, err)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, domain.CodeItemNotFound, ve.Fields[0].Code)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El ítem inexistente corta antes de revisar el tipo.
func TestValidate_ItemVacioCortaAntesQueTipo(t *testing.T) {
	m := newMovement("NOPE", 0)
	m.ItemID = ""
	ve := validationError(t, movement.Validate(m, snapshot(10)))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, domain.CodeItemNotFound, ve.Fields[0].Code)
}

func TestValidate_TipoDesconocido(t *testing.T) {
	err := movement.Validate(newMovement("TRANSFER", 0), snapshot(10))
	ve := validationError(t, err)
	require.Len(t, ve.Fields, 1, "tipo desconocido corta la validación")
	assert.Equal(t, domain.CodeUnknownMovementType, ve.Fields[0].Code)
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType)
}

func TestValidate_CantidadInvalida(t *testing.T) {
	for _, qty := range []int{0, -3} {
		ve := validationError(t, movement.Validate(newMovement(entity.MovementTypeStockIn, qty), snapshot(10)))
		assert.True(t, ve.Has(domain.CodeInvalidQuantity))
	}
}

func TestValidate_FechaInvalida(t *testing.T) {
	m := newMovement(entity.MovementTypeStockIn, 1)
	m.MovementDate = time.Time{}
	ve := validationError(t, movement.Validate(m, snapshot(0)))
	assert.True(t, ve.Has(domain.CodeInvalidDate))
}

// Las correcciones históricas y las fechas futuras son legales.
func TestValidate_FechaFuturaEsValida(t *testing.T) {
	m := newMovement(entity.MovementTypeStockIn, 1)
	m.MovementDate = time.Now().AddDate(1, 0, 0)
	assert.NoError(t, movement.Validate(m, snapshot(0)))
}

// Cantidad, fecha y participante se devuelven juntos.
func TestValidate_AcumulaErroresDeCampo(t *testing.T) {
	m := newMovement(entity.MovementTypeAssignToEmployee, 0)
	m.MovementDate = time.Time{}

	ve := validationError(t, movement.Validate(m, snapshot(10)))
	require.Len(t, ve.Fields, 3)
	assert.True(t, ve.Has(domain.CodeInvalidQuantity))
	assert.True(t, ve.Has(domain.CodeInvalidDate))
	assert.True(t, ve.Has(domain.CodeMissingParticipant))
	assert.False(t, ve.Has(domain.CodeInsufficientStock), "el stock no se evalúa con errores de campo")
}

// Para cada tipo: omitir cada participante requerido da MISSING_PARTICIPANT con su rol;
// con el conjunto correcto el movimiento es válido.
func TestValidate_ParticipantesRequeridosPorTipo(t *testing.T) {
	for _, typ := range movement.Types() {
		t.Run(string(typ), func(t *testing.T) {
			d, _ := movement.Lookup(typ)

			ok := withParticipants(newMovement(typ, 1))
			assert.NoError(t, movement.Validate(ok, snapshot(10)))

			for _, role := range d.RequiredRoles() {
				m := withParticipants(newMovement(typ, 1))
				switch role {
				case movement.RoleReceivingEmployee:
					m.ReceivingEmployeeID = ""
				case movement.RoleAssigningEmployee:
					m.AssigningEmployeeID = ""
				case movement.RoleProject:
					m.ProjectID = ""
				}
				ve := validationError(t, movement.Validate(m, snapshot(10)))
				require.Len(t, ve.Fields, 1)
				assert.Equal(t, domain.CodeMissingParticipant, ve.Fields[0].Code)
				assert.Equal(t, string(role), ve.Fields[0].Role)
			}
		})
	}
}

func TestValidate_ParticipanteInexistenteEnDirectorio(t *testing.T) {
	m := newMovement(entity.MovementTypeAssignToProject, 1)
	m.ProjectID = "proj-borrado"
	ve := validationError(t, movement.Validate(m, snapshot(10)))
	assert.Equal(t, domain.CodeMissingParticipant, ve.Fields[0].Code)
	assert.Equal(t, string(movement.RoleProject), ve.Fields[0].Role)
}

func TestValidate_StockInsuficiente(t *testing.T) {
	err := movement.Validate(newMovement(entity.MovementTypeStockOut, 4), snapshot(3))

	ve := validationError(t, err)
	require.Len(t, ve.Fields, 1)
	f := ve.Fields[0]
	assert.Equal(t, domain.CodeInsufficientStock, f.Code)
	assert.Equal(t, 3, f.Available)
	assert.Equal(t, 4, f.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValidate_SalidaExactaDelStockEsValida(t *testing.T) {
	assert.NoError(t, movement.Validate(newMovement(entity.MovementTypeLoss, 3), snapshot(3)))
}

// Entradas y mantenimiento no controlan stock.
func TestValidate_EntradasNoControlanStock(t *testing.T) {
	for _, typ := range []entity.MovementType{
		entity.MovementTypeStockIn,
		entity.MovementTypeReturnFromEmployee,
		entity.MovementTypeReturnFromProject,
		entity.MovementTypeMaintenance,
	} {
		m := withParticipants(newMovement(typ, 50))
		assert.NoError(t, movement.Validate(m, snapshot(0)), "tipo %s", typ)
	}
}
