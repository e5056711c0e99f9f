package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// La máquina de estados de órdenes: camino feliz lineal, Shipped opcional,
// cancelación solo desde Pending/Confirmed, terminales sin salida.
func TestRestockOrder_Transiciones(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.OrderStatusPending, entity.OrderStatusConfirmed, true},
		{entity.OrderStatusPending, entity.OrderStatusCancelled, true},
		{entity.OrderStatusPending, entity.OrderStatusShipped, false},
		{entity.OrderStatusPending, entity.OrderStatusDelivered, false},
		{entity.OrderStatusConfirmed, entity.OrderStatusShipped, true},
		{entity.OrderStatusConfirmed, entity.OrderStatusDelivered, true}, // recepción directa sin Shipped
		{entity.OrderStatusConfirmed, entity.OrderStatusCancelled, true},
		{entity.OrderStatusShipped, entity.OrderStatusDelivered, true},
		{entity.OrderStatusShipped, entity.OrderStatusCancelled, false},
		{entity.OrderStatusDelivered, entity.OrderStatusCancelled, false},
		{entity.OrderStatusCancelled, entity.OrderStatusConfirmed, false},
	}
	for _, c := range cases {
		order := &entity.RestockOrder{Status: c.from}
		assert.Equal(t, c.ok, order.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestRestockOrder_IsReceivable(t *testing.T) {
	assert.False(t, (&entity.RestockOrder{Status: entity.OrderStatusPending}).IsReceivable())
	assert.True(t, (&entity.RestockOrder{Status: entity.OrderStatusConfirmed}).IsReceivable())
	assert.True(t, (&entity.RestockOrder{Status: entity.OrderStatusShipped}).IsReceivable())
	assert.False(t, (&entity.RestockOrder{Status: entity.OrderStatusDelivered}).IsReceivable())
}

func TestRestockOrder_CalculateTotal(t *testing.T) {
	order := &entity.RestockOrder{
		Items: []entity.RestockOrderItem{
			{TotalPrice: decimal.NewFromFloat(125.50)},
			{TotalPrice: decimal.NewFromFloat(74.50)},
		},
	}
	assert.True(t, order.CalculateTotal().Equal(decimal.NewFromInt(200)))
}
