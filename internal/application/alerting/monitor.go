package alerting

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El monitor lo usa para que cada ciclo de
// escaneo tenga su propia unidad de trabajo, aislada del actor de primer plano.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		txns repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error) error
}

// Monitor re-evalúa periódicamente el estado de alertas de todos los
// productos activos. Duerme entre escaneos y soporta parada graciosa:
// un escaneo en vuelo termina antes de detenerse.
type Monitor struct {
	engine   *Engine
	txRunner TxRunner
	interval time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewMonitor construye el monitor de fondo.
func NewMonitor(engine *Engine, txRunner TxRunner, interval time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		engine:   engine,
		txRunner: txRunner,
		interval: interval,
		log:      log,
	}
}

// Start arranca el loop de monitoreo en una goroutine. Idempotente.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.log.Warn().Msg("el monitor de inventario ya está corriendo")
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
	m.log.Info().Dur("interval", m.interval).Msg("monitor de inventario iniciado")
}

// Stop detiene el monitor y espera a que el escaneo en vuelo termine.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
	m.log.Info().Msg("monitor de inventario detenido")
}

// IsRunning indica si el loop está activo.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Primer escaneo inmediato: stock que ya está bajo al arrancar no
	// espera un intervalo completo.
	m.scan()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.scan()
		}
	}
}

func (m *Monitor) scan() {
	if n, err := m.RunScan(context.Background()); err != nil {
		m.log.Error().Err(err).Msg("error en escaneo de inventario")
	} else if n > 0 {
		m.log.Info().Int("notifications", n).Msg("escaneo de inventario generó alertas")
	}
}

// RunScan evalúa todos los productos activos en una transacción propia y
// despacha las notificaciones pendientes después del commit. Devuelve la
// cantidad de notificaciones producidas.
func (m *Monitor) RunScan(ctx context.Context) (int, error) {
	var pending []*Notification
	err := m.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		_ repository.RestockOrderRepository,
	) error {
		list, err := products.List(true, 0, 0)
		if err != nil {
			return err
		}
		for _, p := range list {
			n, err := m.engine.Evaluate(p, alerts)
			if err != nil {
				return err
			}
			if n != nil {
				pending = append(pending, n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	m.engine.DispatchAll(pending)
	return len(pending), nil
}
