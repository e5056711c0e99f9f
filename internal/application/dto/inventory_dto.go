package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockChangeRequest entrada para las mutaciones de stock de un producto
// (venta, reposición, devolución, vencido, dañado). Quantity siempre positiva;
// la dirección del movimiento la determina la operación.
type StockChangeRequest struct {
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// StockAdjustRequest entrada para ajustar el stock a un nivel absoluto.
// La razón es obligatoria: los ajustes corrigen conteos físicos y deben
// quedar justificados en el libro.
type StockAdjustRequest struct {
	TargetLevel int    `json:"target_level" validate:"min=0"`
	Reason      string `json:"reason" validate:"required,min=1"`
}

// TransactionResponse salida de una transacción del libro de stock.
type TransactionResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Kind            string          `json:"kind"`
	Quantity        int             `json:"quantity"`
	PreviousStock   int             `json:"previous_stock"`
	NewStock        int             `json:"new_stock"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	PerformedBy     string          `json:"performed_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockValueResponse valoración del inventario activo.
type StockValueResponse struct {
	CostValue       decimal.Decimal `json:"cost_value"`
	RetailValue     decimal.Decimal `json:"retail_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

// StockSummaryResponse conteos de estado del inventario y su valoración.
type StockSummaryResponse struct {
	TotalProducts    int                `json:"total_products"`
	TotalUnits       int                `json:"total_units"`
	LowStockCount    int                `json:"low_stock_count"`
	OutOfStockCount  int                `json:"out_of_stock_count"`
	OverstockedCount int                `json:"overstocked_count"`
	Value            StockValueResponse `json:"value"`
}

// ToTransactionResponse convierte la entidad a su DTO de salida.
func ToTransactionResponse(t *entity.StockTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		Kind:            t.Kind,
		Quantity:        t.Quantity,
		PreviousStock:   t.PreviousStock,
		NewStock:        t.NewStock,
		UnitPrice:       t.UnitPrice,
		TotalValue:      t.TotalValue,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		PerformedBy:     t.PerformedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses convierte una lista de entidades.
func ToTransactionResponses(txns []*entity.StockTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, *ToTransactionResponse(t))
	}
	return out
}
