// Package notify contiene los transportes de notificación de alertas que se
// registran en el registro de observadores del motor.
package notify

import (
	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ alerting.Notifier = (*ConsoleNotifier)(nil)

// ConsoleNotifier escribe las alertas al log estructurado. Es el transporte
// por defecto: siempre registrado, no puede fallar.
type ConsoleNotifier struct {
	log *logger.Logger
}

// NewConsoleNotifier construye el transporte de consola.
func NewConsoleNotifier(log *logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

// Notify registra la alerta en el log.
func (n *ConsoleNotifier) Notify(kind string, product *entity.Product, message string) error {
	n.log.Warn().
		Str("alert_kind", kind).
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Int("current_stock", product.CurrentStock).
		Int("min_stock_level", product.MinStockLevel).
		Msg(message)
	return nil
}
