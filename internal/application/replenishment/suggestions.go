package replenishment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Niveles de urgencia de una sugerencia de reabastecimiento.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
)

// Suggestion es una sugerencia de reabastecimiento para un producto en o
// bajo su mínimo. SuggestedQuantity es la cantidad de reorden configurada
// (reponer al buffer, no solo cubrir el déficit). SupplierID es nil para
// productos sin proveedor asignado: aparecen en el listado de solo lectura
// pero se excluyen de la creación de órdenes.
type Suggestion struct {
	ProductID         string
	SKU               string
	ProductName       string
	CurrentStock      int
	MinStockLevel     int
	Shortage          int
	SuggestedQuantity int
	SupplierID        *string
	SupplierName      string
	EstimatedCost     decimal.Decimal
	Urgency           string
}

// urgencyOf clasifica la urgencia: CRITICAL si agotado, HIGH si está bajo
// la mitad del mínimo, MEDIUM en el resto.
func urgencyOf(p *entity.Product) string {
	switch {
	case p.CurrentStock == 0:
		return UrgencyCritical
	case p.CurrentStock*2 < p.MinStockLevel:
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// Suggestions devuelve la lista de sugerencias para todos los productos
// activos en o bajo su mínimo, peor déficit primero.
func (uc *UseCase) Suggestions() ([]Suggestion, error) {
	low, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}

	supplierNames := make(map[string]string)
	suggestions := make([]Suggestion, 0, len(low))
	for _, p := range low {
		s := Suggestion{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.CurrentStock,
			MinStockLevel:     p.MinStockLevel,
			Shortage:          p.MinStockLevel - p.CurrentStock,
			SuggestedQuantity: p.ReorderQuantity,
			SupplierID:        p.SupplierID,
			SupplierName:      "Sin proveedor",
			EstimatedCost:     p.Cost.Mul(decimal.NewFromInt(int64(p.ReorderQuantity))),
			Urgency:           urgencyOf(p),
		}
		if p.SupplierID != nil {
			name, ok := supplierNames[*p.SupplierID]
			if !ok {
				supplier, err := uc.supplierRepo.GetByID(*p.SupplierID)
				if err != nil {
					return nil, err
				}
				if supplier != nil {
					name = supplier.Name
				}
				supplierNames[*p.SupplierID] = name
			}
			if name != "" {
				s.SupplierName = name
			}
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}
