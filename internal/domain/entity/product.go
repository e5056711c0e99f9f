package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto para tienda de abarrotes.
const (
	CategoryProduce      = "Produce"
	CategoryDairy        = "Dairy"
	CategoryMeat         = "Meat"
	CategoryBakery       = "Bakery"
	CategoryFrozen       = "Frozen"
	CategoryBeverages    = "Beverages"
	CategorySnacks       = "Snacks"
	CategoryCannedGoods  = "Canned Goods"
	CategoryCondiments   = "Condiments"
	CategoryHousehold    = "Household"
	CategoryPersonalCare = "Personal Care"
	CategoryOther        = "Other"
)

// Product representa un producto o SKU del inventario con su stock actual.
// CurrentStock se muta únicamente vía el caso de uso de stock (invariante >= 0);
// los campos descriptivos se editan con Update explícito.
type Product struct {
	ID              string
	SKU             string // código único
	Name            string
	Description     string
	Category        string
	Unit            string // piece, lb, kg, oz, etc.
	Price           decimal.Decimal // precio de venta
	Cost            decimal.Decimal // costo de compra al proveedor
	CurrentStock    int
	MinStockLevel   int // umbral de stock bajo
	MaxStockLevel   int // capacidad máxima de almacenamiento
	ReorderQuantity int // cantidad por defecto a reordenar
	Barcode         string
	Brand           string
	Location        string // pasillo/estante en tienda
	SupplierID      *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el producto está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

// IsOutOfStock indica si el producto está agotado.
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock <= 0
}

// IsCriticalLow indica si el stock cayó a la mitad del mínimo o menos.
// Comparación entera exacta: stock*2 <= min equivale a stock <= 0.5*min.
func (p *Product) IsCriticalLow() bool {
	return p.CurrentStock*2 <= p.MinStockLevel
}

// IsOverstocked indica si el stock superó el máximo configurado.
// Un máximo en cero significa sin límite.
func (p *Product) IsOverstocked() bool {
	return p.MaxStockLevel > 0 && p.CurrentStock > p.MaxStockLevel
}

// StockStatus devuelve el estado de stock legible.
func (p *Product) StockStatus() string {
	switch {
	case p.IsOutOfStock():
		return "Out of Stock"
	case p.IsLowStock():
		return "Low Stock"
	case p.IsOverstocked():
		return "Overstocked"
	default:
		return "In Stock"
	}
}
