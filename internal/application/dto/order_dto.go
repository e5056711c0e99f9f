package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/replenishment"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// OrderItemRequest línea de una orden de reabastecimiento.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear una orden de reabastecimiento.
type CreateOrderRequest struct {
	SupplierID string             `json:"supplier_id" validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string             `json:"notes"`
}

// ReceiveOrderRequest entrada para recibir una orden. ReceivedQuantities
// permite indicar por producto la cantidad realmente recibida; las líneas
// no mencionadas se reciben completas.
type ReceiveOrderRequest struct {
	ReceivedQuantities map[string]int `json:"received_quantities"`
}

// CancelOrderRequest entrada para cancelar una orden.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// QuickRestockRequest entrada para reabastecimiento directo sin orden.
// Quantity en cero usa la cantidad de reorden configurada del producto.
type QuickRestockRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// OrderItemResponse salida de una línea de orden.
type OrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de una orden de reabastecimiento.
type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	SupplierID       string              `json:"supplier_id"`
	Status           string              `json:"status"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Notes            string              `json:"notes"`
	OrderDate        time.Time           `json:"order_date"`
	ExpectedDelivery *time.Time          `json:"expected_delivery,omitempty"`
	ActualDelivery   *time.Time          `json:"actual_delivery,omitempty"`
	CreatedBy        string              `json:"created_by"`
	UpdatedBy        string              `json:"updated_by,omitempty"`
	Items            []OrderItemResponse `json:"items"`
}

// SuggestionResponse salida de una sugerencia de reabastecimiento.
type SuggestionResponse struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	CurrentStock      int             `json:"current_stock"`
	MinStockLevel     int             `json:"min_stock_level"`
	Shortage          int             `json:"shortage"`
	SuggestedQuantity int             `json:"suggested_quantity"`
	SupplierID        *string         `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Urgency           string          `json:"urgency"`
}

// OrderSummaryResponse resumen de órdenes por estado.
type OrderSummaryResponse struct {
	TotalOrders         int             `json:"total_orders"`
	Pending             int             `json:"pending"`
	Confirmed           int             `json:"confirmed"`
	Shipped             int             `json:"shipped"`
	Delivered           int             `json:"delivered"`
	Cancelled           int             `json:"cancelled"`
	TotalValuePending   decimal.Decimal `json:"total_value_pending"`
	TotalValueDelivered decimal.Decimal `json:"total_value_delivered"`
}

// SupplierHistoryResponse historial de órdenes de un proveedor.
type SupplierHistoryResponse struct {
	SupplierID          string          `json:"supplier_id"`
	TotalOrders         int             `json:"total_orders"`
	DeliveredOrders     int             `json:"delivered_orders"`
	CancelledOrders     int             `json:"cancelled_orders"`
	TotalValue          decimal.Decimal `json:"total_value"`
	AverageDeliveryDays float64         `json:"average_delivery_days"`
}

// ToOrderResponse convierte la entidad a su DTO de salida.
func ToOrderResponse(o *entity.RestockOrder) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			UnitCost:         item.UnitCost,
			TotalPrice:       item.TotalPrice,
		})
	}
	return &OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		SupplierID:       o.SupplierID,
		Status:           o.Status,
		TotalAmount:      o.TotalAmount,
		Notes:            o.Notes,
		OrderDate:        o.OrderDate,
		ExpectedDelivery: o.ExpectedDelivery,
		ActualDelivery:   o.ActualDelivery,
		CreatedBy:        o.CreatedBy,
		UpdatedBy:        o.UpdatedBy,
		Items:            items,
	}
}

// ToOrderResponses convierte una lista de entidades.
func ToOrderResponses(orders []*entity.RestockOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *ToOrderResponse(o))
	}
	return out
}

// ToSuggestionResponses convierte las sugerencias del caso de uso.
func ToSuggestionResponses(suggestions []replenishment.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, SuggestionResponse{
			ProductID:         s.ProductID,
			SKU:               s.SKU,
			ProductName:       s.ProductName,
			CurrentStock:      s.CurrentStock,
			MinStockLevel:     s.MinStockLevel,
			Shortage:          s.Shortage,
			SuggestedQuantity: s.SuggestedQuantity,
			SupplierID:        s.SupplierID,
			SupplierName:      s.SupplierName,
			EstimatedCost:     s.EstimatedCost,
			Urgency:           s.Urgency,
		})
	}
	return out
}
