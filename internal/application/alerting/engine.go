package alerting

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Notification es un evento pendiente de entrega a los observadores.
// Se produce dentro de la transacción de la mutación y se despacha después
// del commit, para que un transporte lento o caído nunca afecte el estado
// persistido.
type Notification struct {
	Kind    string
	Product entity.Product // snapshot al momento de la evaluación
	Message string
}

// Engine evalúa el stock de productos contra sus umbrales, administra el
// ciclo de vida de las alertas y despacha notificaciones con cooldown por
// (producto, tipo). El mapa de cooldown es estado en memoria: se reinicia
// con el proceso.
type Engine struct {
	alertRepo repository.StockAlertRepository // atado al pool; para operaciones manuales y consultas
	registry  *Registry
	window    time.Duration
	log       *logger.Logger

	mu       sync.Mutex
	cooldown map[string]time.Time
	now      func() time.Time
}

// NewEngine construye el motor de alertas. window es la ventana mínima entre
// notificaciones para el mismo (producto, tipo).
func NewEngine(alertRepo repository.StockAlertRepository, registry *Registry, window time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		alertRepo: alertRepo,
		registry:  registry,
		window:    window,
		log:       log,
		cooldown:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// AddObserver registra un transporte de notificación.
func (e *Engine) AddObserver(n Notifier) {
	e.registry.Add(n)
}

// classify determina la condición por severidad descendente:
// agotado > crítico > bajo > ninguna. Devuelve tipo y mensaje, o "" si sano.
func classify(p *entity.Product) (kind, message string) {
	switch {
	case p.IsOutOfStock():
		return entity.AlertOutOfStock,
			fmt.Sprintf("El producto '%s' está AGOTADO. Requiere reabastecimiento inmediato.", p.Name)
	case p.IsCriticalLow():
		return entity.AlertCriticalLow,
			fmt.Sprintf("El producto '%s' está en nivel crítico. Stock: %d, Mínimo: %d", p.Name, p.CurrentStock, p.MinStockLevel)
	case p.IsLowStock():
		return entity.AlertLowStock,
			fmt.Sprintf("El producto '%s' está bajo de stock. Stock: %d, Mínimo: %d", p.Name, p.CurrentStock, p.MinStockLevel)
	}
	return "", ""
}

// Evaluate corre la evaluación de un producto usando el repositorio de
// alertas indicado (atado a la transacción de la mutación, para que la
// persistencia de la alerta viaje en la misma unidad atómica).
//
// Si hay condición: garantiza una alerta Active para (producto, tipo),
// creándola o refrescando mensaje y nivel de stock, y devuelve la
// Notification pendiente. Si el stock está sano: resuelve TODAS las alertas
// abiertas del producto (de cualquier tipo) y devuelve nil.
// La persistencia de la alerta nunca depende del cooldown; solo la entrega.
func (e *Engine) Evaluate(product *entity.Product, alerts repository.StockAlertRepository) (*Notification, error) {
	if !product.IsActive {
		return nil, nil
	}

	kind, message := classify(product)
	if kind == "" {
		return nil, e.resolveAllOpen(product, alerts)
	}

	existing, err := alerts.GetActiveByProductAndKind(product.ID, kind)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		alert := &entity.StockAlert{
			ID:                uuid.New().String(),
			ProductID:         product.ID,
			Kind:              kind,
			Message:           message,
			Status:            entity.AlertStatusActive,
			StockLevelAtAlert: product.CurrentStock,
			CreatedAt:         e.now(),
		}
		if err := alerts.Create(alert); err != nil {
			return nil, err
		}
	} else {
		// Misma condición detectada de nuevo: el registro refleja el último
		// nivel de stock aunque el cooldown suprima la notificación.
		existing.Message = message
		existing.StockLevelAtAlert = product.CurrentStock
		if err := alerts.Update(existing); err != nil {
			return nil, err
		}
	}

	return &Notification{Kind: kind, Product: *product, Message: message}, nil
}

// resolveAllOpen resuelve alertas Active y Acknowledged de un producto
// cuando su stock se recupera, estampando la hora de resolución.
func (e *Engine) resolveAllOpen(product *entity.Product, alerts repository.StockAlertRepository) error {
	open, err := alerts.ListOpenByProduct(product.ID)
	if err != nil {
		return err
	}
	resolvedAt := e.now()
	for _, alert := range open {
		alert.Status = entity.AlertStatusResolved
		alert.ResolvedAt = &resolvedAt
		if err := alerts.Update(alert); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch entrega la notificación a los observadores si el cooldown del par
// (producto, tipo) lo permite, y refresca el timestamp en caso de entrega.
// Llamar siempre después del commit de la transacción que la produjo.
func (e *Engine) Dispatch(n *Notification) {
	if n == nil {
		return
	}
	if !e.allowSend(n.Product.ID, n.Kind) {
		e.log.Debug().
			Str("product_sku", n.Product.SKU).
			Str("alert_kind", n.Kind).
			Msg("notificación suprimida por cooldown")
		return
	}
	e.registry.Dispatch(n.Kind, &n.Product, n.Message)
	e.recordSend(n.Product.ID, n.Kind)
}

// DispatchAll despacha una tanda de notificaciones en orden.
func (e *Engine) DispatchAll(ns []*Notification) {
	for _, n := range ns {
		e.Dispatch(n)
	}
}

func cooldownKey(productID, kind string) string {
	return productID + "_" + kind
}

func (e *Engine) allowSend(productID, kind string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	last, ok := e.cooldown[cooldownKey(productID, kind)]
	if !ok {
		return true
	}
	return e.now().Sub(last) >= e.window
}

func (e *Engine) recordSend(productID, kind string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cooldown[cooldownKey(productID, kind)] = e.now()
}

// ──────────────────────────────────────────────────────────────────────────
// Operaciones manuales y consultas (usan el repositorio atado al pool)
// ──────────────────────────────────────────────────────────────────────────

// Acknowledge marca una alerta como reconocida. Solo procede desde Active;
// devuelve false (sin error) si la alerta no existe o no está Active.
func (e *Engine) Acknowledge(alertID, actor string) (bool, error) {
	alert, err := e.alertRepo.GetByID(alertID)
	if err != nil {
		return false, err
	}
	if alert == nil || alert.Status != entity.AlertStatusActive {
		return false, nil
	}
	ackAt := e.now()
	alert.Status = entity.AlertStatusAcknowledged
	alert.AcknowledgedBy = actor
	alert.AcknowledgedAt = &ackAt
	if err := e.alertRepo.Update(alert); err != nil {
		return false, err
	}
	return true, nil
}

// Resolve resuelve manualmente una alerta desde cualquier estado no terminal;
// devuelve false (sin error) si no existe o ya estaba Resolved.
func (e *Engine) Resolve(alertID string) (bool, error) {
	alert, err := e.alertRepo.GetByID(alertID)
	if err != nil {
		return false, err
	}
	if alert == nil || alert.Status == entity.AlertStatusResolved {
		return false, nil
	}
	resolvedAt := e.now()
	alert.Status = entity.AlertStatusResolved
	alert.ResolvedAt = &resolvedAt
	if err := e.alertRepo.Update(alert); err != nil {
		return false, err
	}
	return true, nil
}

// ActiveAlerts devuelve todas las alertas activas.
func (e *Engine) ActiveAlerts() ([]*entity.StockAlert, error) {
	return e.alertRepo.ListActive()
}

// ActiveAlertsByKind devuelve las alertas activas de un tipo.
func (e *Engine) ActiveAlertsByKind(kind string) ([]*entity.StockAlert, error) {
	return e.alertRepo.ListActiveByKind(kind)
}

// Summary devuelve el conteo de alertas activas por tipo.
func (e *Engine) Summary() (map[string]int, error) {
	active, err := e.alertRepo.ListActive()
	if err != nil {
		return nil, err
	}
	summary := map[string]int{
		"total_active":  len(active),
		"out_of_stock":  0,
		"critical_low":  0,
		"low_stock":     0,
		"expiring_soon": 0,
	}
	for _, alert := range active {
		switch alert.Kind {
		case entity.AlertOutOfStock:
			summary["out_of_stock"]++
		case entity.AlertCriticalLow:
			summary["critical_low"]++
		case entity.AlertLowStock:
			summary["low_stock"]++
		case entity.AlertExpiringSoon:
			summary["expiring_soon"]++
		}
	}
	return summary, nil
}
