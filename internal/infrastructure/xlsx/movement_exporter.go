// Package xlsx exporta listados de movimientos a Excel.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

const sheetName = "Movimientos"

var header = []interface{}{
	"Fecha", "Tipo", "Código", "Ítem", "Cantidad",
	"Empleado que recibe", "Empleado que devuelve", "Proyecto", "Observaciones", "ID",
}

// MovementExporter implementa inventory.MovementExporter con excelize.
type MovementExporter struct{}

var _ inventory.MovementExporter = (*MovementExporter)(nil)

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// Export escribe una hoja con una fila por movimiento, en el orden recibido.
func (e *MovementExporter) Export(ctx context.Context, rows []dto.MovementDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheetName, 1, 1, bold)
	}

	for i, d := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		values := []interface{}{
			d.MovementDate,
			inventory.TypeLabel(entity.MovementType(d.Type)),
			d.ItemCode,
			d.ItemName,
			d.Quantity,
			d.ReceivingEmployeeName,
			d.AssigningEmployeeName,
			d.ProjectName,
			d.Note,
			d.ID,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheetName, "B", "B", 24)
	_ = f.SetColWidth(sheetName, "D", "D", 32)
	_ = f.SetColWidth(sheetName, "F", "H", 24)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
