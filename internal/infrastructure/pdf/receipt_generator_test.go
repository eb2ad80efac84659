package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/pdf"
)

func TestReceipt_GeneraPDF(t *testing.T) {
	stock := 7
	d := &dto.MovementDetail{
		MovementResponse: dto.MovementResponse{
			ID: "mov-1", ItemID: "item-1", Type: "ASSIGN_TO_EMPLOYEE", Quantity: 3,
			MovementDate: "2024-05-10", Note: "Entrega para obra", StockAfter: &stock,
		},
		ItemCode: "TAL-01", ItemName: "Taladro", ReceivingEmployeeName: "Ana Pérez",
	}

	out, err := pdf.NewReceiptGenerator("Bodega central").Receipt(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestReceipt_MovimientoNulo(t *testing.T) {
	_, err := pdf.NewReceiptGenerator("x").Receipt(context.Background(), nil)
	assert.Error(t, err)
}
