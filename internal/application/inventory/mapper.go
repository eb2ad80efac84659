package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// parseDate interpreta YYYY-MM-DD. Una fecha ilegible queda en cero y el validador la rechaza.
func parseDate(s string) time.Time {
	d, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return d
}

func toMovement(in dto.MovementRequest) *entity.Movement {
	return &entity.Movement{
		ItemID:              strings.TrimSpace(in.ItemID),
		Type:                entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Type))),
		Quantity:            in.Quantity,
		MovementDate:        parseDate(in.MovementDate),
		Note:                strings.TrimSpace(in.Note),
		ReceivingEmployeeID: strings.TrimSpace(in.ReceivingEmployeeID),
		AssigningEmployeeID: strings.TrimSpace(in.AssigningEmployeeID),
		ProjectID:           strings.TrimSpace(in.ProjectID),
	}
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:                  m.ID,
		ItemID:              m.ItemID,
		Type:                string(m.Type),
		Quantity:            m.Quantity,
		MovementDate:        m.MovementDate.Format(dto.DateLayout),
		Note:                m.Note,
		ReceivingEmployeeID: m.ReceivingEmployeeID,
		AssigningEmployeeID: m.AssigningEmployeeID,
		ProjectID:           m.ProjectID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		CreatedBy:           m.CreatedBy,
	}
}
