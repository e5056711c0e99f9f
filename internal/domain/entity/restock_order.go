package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de reabastecimiento. Delivered y Cancelled son terminales.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// orderTransitions define la máquina de estados:
// Pending → Confirmed → Shipped → Delivered, con Shipped opcional
// (se puede recibir directo desde Confirmed) y cancelación solo
// desde Pending o Confirmed.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// RestockOrder es el agregado raíz de una orden de compra a un proveedor.
// TotalAmount se calcula al crear la orden y no se recalcula después.
type RestockOrder struct {
	ID               string
	OrderNumber      string // PO-YYYYMMDD-XXXXXX, único
	SupplierID       string
	Status           string
	TotalAmount      decimal.Decimal
	Notes            string
	OrderDate        time.Time
	ExpectedDelivery *time.Time
	ActualDelivery   *time.Time
	CreatedBy        string
	UpdatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []RestockOrderItem
}

// RestockOrderItem es una línea de la orden: producto, cantidades y costo
// congelado al momento de la creación.
type RestockOrderItem struct {
	ID               string
	OrderID          string
	ProductID        string
	QuantityOrdered  int
	QuantityReceived int
	UnitCost         decimal.Decimal // snapshot del costo del producto
	TotalPrice       decimal.Decimal // QuantityOrdered * UnitCost
}

// CanTransition indica si la orden puede pasar al estado destino.
func (o *RestockOrder) CanTransition(to string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// IsReceivable indica si la orden puede recibirse (Confirmed o Shipped).
func (o *RestockOrder) IsReceivable() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusShipped
}

// IsTerminal indica si la orden está en un estado final.
func (o *RestockOrder) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// CalculateTotal suma los totales de línea. Se usa solo en la creación;
// el total nunca se recalcula en silencio después.
func (o *RestockOrder) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}
