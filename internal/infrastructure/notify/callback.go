package notify

import (
	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var _ alerting.Notifier = (*CallbackNotifier)(nil)

// CallbackNotifier adapta una función a la interfaz Notifier. Útil para
// integraciones ad hoc y para tests.
type CallbackNotifier struct {
	fn func(kind string, product *entity.Product, message string) error
}

// NewCallbackNotifier envuelve fn como transporte de notificación.
func NewCallbackNotifier(fn func(kind string, product *entity.Product, message string) error) *CallbackNotifier {
	return &CallbackNotifier{fn: fn}
}

// Notify delega en la función envuelta.
func (n *CallbackNotifier) Notify(kind string, product *entity.Product, message string) error {
	return n.fn(kind, product, message)
}
