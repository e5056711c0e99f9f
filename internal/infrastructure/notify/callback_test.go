package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func TestCallbackNotifier_RecibeElEventoCompleto(t *testing.T) {
	var (
		gotKind    string
		gotSKU     string
		gotMessage string
	)
	cb := NewCallbackNotifier(func(kind string, product *entity.Product, message string) error {
		gotKind = kind
		gotSKU = product.SKU
		gotMessage = message
		return nil
	})

	registry := alerting.NewRegistry(logger.Nop())
	registry.Add(cb)

	product := &entity.Product{ID: "prod-1", SKU: "SKU-001", Name: "Leche entera"}
	registry.Dispatch(entity.AlertOutOfStock, product, "AGOTADO: Leche entera")

	assert.Equal(t, entity.AlertOutOfStock, gotKind)
	assert.Equal(t, "SKU-001", gotSKU)
	assert.Equal(t, "AGOTADO: Leche entera", gotMessage)
}

func TestCallbackNotifier_ErrorNoCortaElFanOut(t *testing.T) {
	failing := NewCallbackNotifier(func(string, *entity.Product, string) error {
		return errors.New("webhook caído")
	})
	delivered := 0
	ok := NewCallbackNotifier(func(string, *entity.Product, string) error {
		delivered++
		return nil
	})

	registry := alerting.NewRegistry(logger.Nop())
	registry.Add(failing)
	registry.Add(ok)

	product := &entity.Product{ID: "prod-1", SKU: "SKU-001"}
	registry.Dispatch(entity.AlertLowStock, product, "Stock bajo")

	assert.Equal(t, 1, delivered,
		"el fallo del primer callback no impide la entrega al siguiente")
	require.Equal(t, 2, registry.Len())
}
