package dto

// StockDriftDTO diferencia entre el stock almacenado y el recalculado desde los movimientos.
type StockDriftDTO struct {
	ItemID        string `json:"item_id"`
	ItemCode      string `json:"item_code"`
	StoredStock   int    `json:"stored_stock"`
	ExpectedStock int    `json:"expected_stock"`
	Fixed         bool   `json:"fixed"`
	Note          string `json:"note,omitempty"`
}

// ReconcileReport resultado de una pasada de reconciliación.
type ReconcileReport struct {
	ItemsChecked    int             `json:"items_checked"`
	Drifts          []StockDriftDTO `json:"drifts"`
	OrphanMovements []string        `json:"orphan_movements"` // movimientos cuyo ítem ya no existe
	FixRequested    bool            `json:"fix_requested"`
}
