package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. InitialStock, si es
// mayor a cero, se registra como una entrada en el libro de movimientos.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	Price           decimal.Decimal `json:"price"`
	Cost            decimal.Decimal `json:"cost"`
	InitialStock    int             `json:"initial_stock" validate:"min=0"`
	MinStockLevel   int             `json:"min_stock_level" validate:"min=0"`
	MaxStockLevel   int             `json:"max_stock_level" validate:"min=0"`
	ReorderQuantity int             `json:"reorder_quantity" validate:"min=0"`
	Barcode         string          `json:"barcode"`
	Brand           string          `json:"brand"`
	Location        string          `json:"location"`
	SupplierID      *string         `json:"supplier_id"`
}

// UpdateProductRequest entrada para actualizar un producto.
// El stock actual nunca se modifica por esta vía; se maneja vía movimientos.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Unit            *string          `json:"unit"`
	Price           *decimal.Decimal `json:"price"`
	Cost            *decimal.Decimal `json:"cost"`
	MinStockLevel   *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel   *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	ReorderQuantity *int             `json:"reorder_quantity" validate:"omitempty,min=0"`
	Barcode         *string          `json:"barcode"`
	Brand           *string          `json:"brand"`
	Location        *string          `json:"location"`
	SupplierID      *string          `json:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	Price           decimal.Decimal `json:"price"`
	Cost            decimal.Decimal `json:"cost"`
	CurrentStock    int             `json:"current_stock"`
	MinStockLevel   int             `json:"min_stock_level"`
	MaxStockLevel   int             `json:"max_stock_level"`
	ReorderQuantity int             `json:"reorder_quantity"`
	StockStatus     string          `json:"stock_status"`
	Barcode         string          `json:"barcode"`
	Brand           string          `json:"brand"`
	Location        string          `json:"location"`
	SupplierID      *string         `json:"supplier_id"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse convierte la entidad a su DTO de salida.
func ToProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Unit:            p.Unit,
		Price:           p.Price,
		Cost:            p.Cost,
		CurrentStock:    p.CurrentStock,
		MinStockLevel:   p.MinStockLevel,
		MaxStockLevel:   p.MaxStockLevel,
		ReorderQuantity: p.ReorderQuantity,
		StockStatus:     p.StockStatus(),
		Barcode:         p.Barcode,
		Brand:           p.Brand,
		Location:        p.Location,
		SupplierID:      p.SupplierID,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses convierte una lista de entidades.
func ToProductResponses(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *ToProductResponse(p))
	}
	return out
}
