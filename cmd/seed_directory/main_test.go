package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DecodificaLatin1(t *testing.T) {
	// "Peña" en ISO-8859-1: ñ = 0xF1
	raw := []byte("EMPLEADO;emp-1;Pe\xf1a;S\nPROYECTO;proj-1;Puente O'Higgins;N\nOTRO;x;y\nEMPLEADO;;sin id\n")

	employees, projects, err := parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Len(t, projects, 1)
	assert.Equal(t, "Peña", employees[0].name)
	assert.True(t, employees[0].active)
	assert.False(t, projects[0].active)
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	var b strings.Builder
	err := writeSQL(&b, nil, []record{{id: "proj-1", name: "Puente O'Higgins", active: true}})
	require.NoError(t, err)
	assert.Contains(t, b.String(), "'Puente O''Higgins', true")
	assert.Contains(t, b.String(), "ON CONFLICT (id)")
}
