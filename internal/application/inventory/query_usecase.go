package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/movement"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// NotFoundLabel etiqueta de una referencia que ya no existe en su directorio.
const NotFoundLabel = "no encontrado"

// exportLimit tope de filas de una exportación.
const exportLimit = 10000

// MovementQueryUseCase consultas de solo lectura: movimientos con las etiquetas de
// ítem, empleados y proyecto. Una referencia colgante se muestra como NotFoundLabel.
type MovementQueryUseCase struct {
	movements repository.MovementRepository
	items     repository.InventoryItemRepository
	employees repository.EmployeeDirectory
	projects  repository.ProjectDirectory
	exporter  MovementExporter
	receipts  ReceiptGenerator
}

// NewMovementQueryUseCase construye el caso de uso. exporter y receipts pueden ser nil.
func NewMovementQueryUseCase(
	movements repository.MovementRepository,
	items repository.InventoryItemRepository,
	employees repository.EmployeeDirectory,
	projects repository.ProjectDirectory,
	exporter MovementExporter,
	receipts ReceiptGenerator,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{
		movements: movements,
		items:     items,
		employees: employees,
		projects:  projects,
		exporter:  exporter,
		receipts:  receipts,
	}
}

// Get devuelve un movimiento con sus etiquetas.
func (uc *MovementQueryUseCase) Get(ctx context.Context, id string) (*dto.MovementDetail, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.label(ctx, []*entity.Movement{m})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// List lista movimientos filtrados y paginados, más recientes primero.
func (uc *MovementQueryUseCase) List(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	f, err := toFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	rows, err := uc.label(ctx, list)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: rows,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Export genera el listado filtrado (sin paginar, hasta exportLimit filas) como archivo.
func (uc *MovementQueryUseCase) Export(ctx context.Context, in dto.MovementFilterRequest) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("%w: exportación no configurada", domain.ErrInvalidInput)
	}
	f, err := toFilter(in)
	if err != nil {
		return nil, err
	}
	f.Limit = exportLimit
	f.Offset = 0
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	rows, err := uc.label(ctx, list)
	if err != nil {
		return nil, err
	}
	return uc.exporter.Export(ctx, rows)
}

// Receipt genera el comprobante PDF de un movimiento.
func (uc *MovementQueryUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("%w: comprobantes no configurados", domain.ErrInvalidInput)
	}
	d, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.receipts.Receipt(ctx, d)
}

// Types publica el catálogo de tipos de movimiento.
func (uc *MovementQueryUseCase) Types() []dto.MovementTypeResponse {
	types := movement.Types()
	out := make([]dto.MovementTypeResponse, 0, len(types))
	for _, t := range types {
		d, _ := movement.Lookup(t)
		out = append(out, dto.MovementTypeResponse{
			Type:                      string(t),
			Label:                     TypeLabel(t),
			DeltaSign:                 d.DeltaSign,
			RequiresReceivingEmployee: d.RequiresReceivingEmployee,
			RequiresAssigningEmployee: d.RequiresAssigningEmployee,
			RequiresProject:           d.RequiresProject,
			EnforcesStockSufficiency:  d.EnforcesStockSufficiency,
		})
	}
	return out
}

// TypeLabel nombre legible del tipo de movimiento.
func TypeLabel(t entity.MovementType) string {
	switch t {
	case entity.MovementTypeStockIn:
		return "Entrada de stock"
	case entity.MovementTypeStockOut:
		return "Salida de stock"
	case entity.MovementTypeAssignToEmployee:
		return "Asignación a empleado"
	case entity.MovementTypeAssignToProject:
		return "Asignación a proyecto"
	case entity.MovementTypeReturnFromEmployee:
		return "Devolución de empleado"
	case entity.MovementTypeReturnFromProject:
		return "Devolución de proyecto"
	case entity.MovementTypeLoss:
		return "Pérdida"
	case entity.MovementTypeMaintenance:
		return "Envío a mantenimiento"
	}
	return string(t)
}

func toFilter(in dto.MovementFilterRequest) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ItemID:     strings.TrimSpace(in.ItemID),
		Type:       entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Type))),
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		ProjectID:  strings.TrimSpace(in.ProjectID),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if f.Type != "" {
		if _, err := movement.Lookup(f.Type); err != nil {
			return f, fmt.Errorf("%w: type %q", domain.ErrInvalidInput, in.Type)
		}
	}
	var err error
	if f.From, err = optionalDate(in.From); err != nil {
		return f, err
	}
	if f.To, err = optionalDate(in.To); err != nil {
		return f, err
	}
	return f, nil
}

func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d := parseDate(s)
	if d.IsZero() {
		return nil, fmt.Errorf("%w: fecha %q, formato esperado %s", domain.ErrInvalidInput, s, dto.DateLayout)
	}
	return &d, nil
}

// label resuelve las etiquetas de una página de movimientos consultando cada id una sola vez.
func (uc *MovementQueryUseCase) label(ctx context.Context, list []*entity.Movement) ([]dto.MovementDetail, error) {
	items := map[string]*entity.InventoryItem{}
	employees := map[string]string{}
	projects := map[string]string{}

	employeeName := func(id string) (string, error) {
		if id == "" {
			return "", nil
		}
		if name, ok := employees[id]; ok {
			return name, nil
		}
		e, err := uc.employees.GetEmployee(ctx, id)
		if err != nil {
			return "", err
		}
		name := NotFoundLabel
		if e != nil {
			name = e.FullName
		}
		employees[id] = name
		return name, nil
	}

	rows := make([]dto.MovementDetail, 0, len(list))
	for _, m := range list {
		row := dto.MovementDetail{MovementResponse: *toMovementResponse(m)}

		item, ok := items[m.ItemID]
		if !ok {
			var err error
			if item, err = uc.items.GetByID(ctx, m.ItemID); err != nil {
				return nil, err
			}
			items[m.ItemID] = item
		}
		if item != nil {
			row.ItemCode = item.Code
			row.ItemName = item.Name
		} else {
			row.ItemCode = NotFoundLabel
			row.ItemName = NotFoundLabel
		}

		var err error
		if row.ReceivingEmployeeName, err = employeeName(m.ReceivingEmployeeID); err != nil {
			return nil, err
		}
		if row.AssigningEmployeeName, err = employeeName(m.AssigningEmployeeID); err != nil {
			return nil, err
		}
		if m.ProjectID != "" {
			name, ok := projects[m.ProjectID]
			if !ok {
				p, err := uc.projects.GetProject(ctx, m.ProjectID)
				if err != nil {
					return nil, err
				}
				name = NotFoundLabel
				if p != nil {
					name = p.Name
				}
				projects[m.ProjectID] = name
			}
			row.ProjectName = name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
