package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
)

// TestLookup_TablaDeReglas fija la tabla de reglas: signo, participantes y control de stock.
func TestLookup_TablaDeReglas(t *testing.T) {
	cases := []struct {
		typ       entity.MovementType
		sign      int
		receiving bool
		assigning bool
		project   bool
		stock     bool
	}{
		{entity.MovementTypeStockIn, 1, false, false, false, false},
		{entity.MovementTypeStockOut, -1, false, false, false, true},
		{entity.MovementTypeAssignToEmployee, -1, true, false, false, true},
		{entity.MovementTypeAssignToProject, -1, false, false, true, true},
		{entity.MovementTypeReturnFromEmployee, 1, false, true, false, false},
		{entity.MovementTypeReturnFromProject, 1, false, false, true, false},
		{entity.MovementTypeLoss, -1, false, false, false, true},
		{entity.MovementTypeMaintenance, 0, false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			d, err := movement.Lookup(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.typ, d.Type)
			assert.Equal(t, tc.sign, d.DeltaSign)
			assert.Equal(t, tc.receiving, d.RequiresReceivingEmployee)
			assert.Equal(t, tc.assigning, d.RequiresAssigningEmployee)
			assert.Equal(t, tc.project, d.RequiresProject)
			assert.Equal(t, tc.stock, d.EnforcesStockSufficiency)
		})
	}
}

// Todo tipo con signo negativo debe controlar suficiencia de stock, y solo esos.
func TestLookup_ControlDeStockSiiSalida(t *testing.T) {
	for _, typ := range movement.Types() {
		d, err := movement.Lookup(typ)
		require.NoError(t, err)
		assert.Equal(t, d.DeltaSign == -1, d.EnforcesStockSufficiency, "tipo %s", typ)
	}
}

func TestTypes_EsExhaustivoYEstable(t *testing.T) {
	types := movement.Types()
	require.Len(t, types, 8)
	assert.Equal(t, entity.MovementTypeStockIn, types[0])
	assert.Equal(t, entity.MovementTypeMaintenance, types[7])

	// La copia devuelta no debe alterar el catálogo.
	types[0] = "MUTADO"
	assert.Equal(t, entity.MovementTypeStockIn, movement.Types()[0])
}

func TestLookup_TipoDesconocido(t *testing.T) {
	_, err := movement.Lookup("TRANSFER")
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType)
}

func TestDescriptor_DeltaYRoles(t *testing.T) {
	d, _ := movement.Lookup(entity.MovementTypeAssignToEmployee)
	assert.Equal(t, -5, d.Delta(5))
	assert.Equal(t, []movement.Role{movement.RoleReceivingEmployee}, d.RequiredRoles())

	m, _ := movement.Lookup(entity.MovementTypeMaintenance)
	assert.Equal(t, 0, m.Delta(7))
	assert.Empty(t, m.RequiredRoles())
}

// Un movimiento editado de ASSIGN_TO_EMPLOYEE a ASSIGN_TO_PROJECT no debe conservar el empleado.
func TestNormalize_LimpiaParticipantesAjenosAlTipo(t *testing.T) {
	m := &entity.Movement{
		Type:                entity.MovementTypeAssignToProject,
		ReceivingEmployeeID: "emp-viejo",
		AssigningEmployeeID: "emp-otro",
		ProjectID:           "proj-1",
	}
	movement.Normalize(m)
	assert.Empty(t, m.ReceivingEmployeeID)
	assert.Empty(t, m.AssigningEmployeeID)
	assert.Equal(t, "proj-1", m.ProjectID)

	unknown := &entity.Movement{Type: "X", ProjectID: "proj-1"}
	movement.Normalize(unknown)
	assert.Equal(t, "proj-1", unknown.ProjectID, "tipo desconocido no se normaliza")
}
