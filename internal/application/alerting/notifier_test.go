package alerting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

type namedNotifier struct {
	name  string
	calls *[]string
	err   error
	panic bool
}

func (n *namedNotifier) Notify(kind string, product *entity.Product, message string) error {
	*n.calls = append(*n.calls, n.name)
	if n.panic {
		panic("observador roto")
	}
	return n.err
}

func TestRegistry_EntregaEnOrdenDeRegistro(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	var calls []string
	registry.Add(&namedNotifier{name: "a", calls: &calls})
	registry.Add(&namedNotifier{name: "b", calls: &calls})
	registry.Add(&namedNotifier{name: "c", calls: &calls})

	registry.Dispatch(entity.AlertLowStock, testProduct(5, 10), "mensaje")
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestRegistry_ErrorDeUnObservadorNoCortaElResto(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	var calls []string
	registry.Add(&namedNotifier{name: "a", calls: &calls, err: errors.New("smtp caído")})
	registry.Add(&namedNotifier{name: "b", calls: &calls})

	registry.Dispatch(entity.AlertOutOfStock, testProduct(0, 10), "mensaje")
	assert.Equal(t, []string{"a", "b"}, calls, "el error de 'a' no impide la entrega a 'b'")
}

func TestRegistry_PanicDeUnObservadorSeAisla(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	var calls []string
	registry.Add(&namedNotifier{name: "a", calls: &calls, panic: true})
	registry.Add(&namedNotifier{name: "b", calls: &calls})

	assert.NotPanics(t, func() {
		registry.Dispatch(entity.AlertCriticalLow, testProduct(2, 10), "mensaje")
	})
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestRegistry_RemoveQuitaElObservador(t *testing.T) {
	registry := NewRegistry(logger.Nop())
	var calls []string
	a := &namedNotifier{name: "a", calls: &calls}
	b := &namedNotifier{name: "b", calls: &calls}
	registry.Add(a)
	registry.Add(b)
	assert.Equal(t, 2, registry.Len())

	registry.Remove(a)
	assert.Equal(t, 1, registry.Len())

	registry.Dispatch(entity.AlertLowStock, testProduct(5, 10), "mensaje")
	assert.Equal(t, []string{"b"}, calls)
}
