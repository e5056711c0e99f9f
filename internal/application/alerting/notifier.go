package alerting

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Notifier es la capacidad de un transporte de notificación (consola, email,
// callback). Recibe el tipo de alerta como código corto, un snapshot del
// producto y el mensaje legible. El transporte es dueño de su presentación.
type Notifier interface {
	Notify(kind string, product *entity.Product, message string) error
}

// Registry mantiene el conjunto ordenado de observadores y hace el fan-out.
// La entrega es fire-and-forget: un fallo (error o panic) en un observador se
// registra y no impide la entrega a los siguientes ni se propaga al caller.
type Registry struct {
	mu        sync.Mutex
	observers []Notifier
	log       *logger.Logger
}

// NewRegistry construye el registro de observadores.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log}
}

// Add registra un observador al final del orden de entrega.
func (r *Registry) Add(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, n)
}

// Remove quita un observador del registro.
func (r *Registry) Remove(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.observers {
		if o == n {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Len devuelve la cantidad de observadores registrados.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}

// Dispatch entrega el evento a cada observador en orden de registro.
func (r *Registry) Dispatch(kind string, product *entity.Product, message string) {
	r.mu.Lock()
	observers := make([]Notifier, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	for _, o := range observers {
		r.deliver(o, kind, product, message)
	}
}

// deliver aísla el fallo de un observador: ni error ni panic cortan el loop.
func (r *Registry) deliver(o Notifier, kind string, product *entity.Product, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Str("alert_kind", kind).
				Str("product_sku", product.SKU).
				Interface("panic", rec).
				Msg("observador de alertas en panic")
		}
	}()
	if err := o.Notify(kind, product, message); err != nil {
		r.log.Error().
			Err(err).
			Str("alert_kind", kind).
			Str("product_sku", product.SKU).
			Msg("error notificando observador de alertas")
	}
}
