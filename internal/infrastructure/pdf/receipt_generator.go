// Package pdf genera el comprobante de entrega/recepción de un movimiento de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de movimiento  │  N° + Fecha                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÍTEM: Código + Nombre + Cantidad + Stock resultante         │
//	│  PARTICIPANTES: quien entrega / quien recibe / proyecto      │
//	│  OBSERVACIONES                                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega │ Recibe                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var upper = cases.Upper(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa inventory.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	org string
}

var _ inventory.ReceiptGenerator = (*ReceiptGenerator)(nil)

// NewReceiptGenerator construye el generador. org aparece como autor del documento.
func NewReceiptGenerator(org string) *ReceiptGenerator { return &ReceiptGenerator{org: org} }

// Receipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Receipt(_ context.Context, d *dto.MovementDetail) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pdf: movimiento nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de movimiento", true).
		WithAuthor(g.org, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRow(d))
	m.AddRows(participantRows(d)...)
	if d.Note != "" {
		m.AddRows(noteRow(d.Note))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(25))
	m.AddRows(signatureRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de movimiento (izq) y número + fecha (der).
func headerRow(d *dto.MovementDetail) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(upper.String(inventory.TypeLabel(entity.MovementType(d.Type))), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de movimiento de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+d.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+d.MovementDate, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func itemRow(d *dto.MovementDetail) core.Row {
	stock := "—"
	if d.StockAfter != nil {
		stock = strconv.Itoa(*d.StockAfter)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ÍTEM", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  %s", d.ItemCode, d.ItemName), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(2).Add(
			text.New("Cantidad", props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}),
			text.New(strconv.Itoa(d.Quantity), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
		),
		col.New(2).Add(
			text.New("Stock", props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray}),
			text.New(stock, props.Text{Size: 12, Align: align.Right, Top: 6}),
		),
	)
}

// participantRows: solo los participantes que el movimiento tiene.
func participantRows(d *dto.MovementDetail) []core.Row {
	var rows []core.Row
	add := func(label, value string) {
		if value == "" {
			return
		}
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(value, props.Text{Size: 9, Top: 1})),
		))
	}
	add("Empleado que recibe:", d.ReceivingEmployeeName)
	add("Empleado que devuelve:", d.AssigningEmployeeName)
	add("Proyecto:", d.ProjectName)
	return rows
}

func noteRow(note string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(note, props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}

// signatureRow: una línea de firma por cada lado del movimiento.
func signatureRow(d *dto.MovementDetail) core.Row {
	left, right := "Entrega (bodega)", "Recibe"
	switch entity.MovementType(d.Type) {
	case entity.MovementTypeReturnFromEmployee, entity.MovementTypeReturnFromProject, entity.MovementTypeStockIn:
		left, right = "Entrega", "Recibe (bodega)"
	}
	sig := func(label, name string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 5}),
			text.New(name, props.Text{Size: 8, Align: align.Center, Top: 9, Color: colorGray}),
		)
	}
	return row.New(16).Add(
		sig(left, d.AssigningEmployeeName),
		sig(right, nonEmpty(d.ReceivingEmployeeName, d.ProjectName)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
