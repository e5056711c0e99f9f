package alerting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// syncNotifier captura entregas desde la goroutine del monitor.
type syncNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *syncNotifier) Notify(kind string, _ *entity.Product, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

func (n *syncNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.kinds)
}

// scanProducts implementa solo lo que el escaneo usa; el resto no se llama.
type scanProducts struct {
	repository.ProductRepository
	products []*entity.Product
}

func (s *scanProducts) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	return s.products, nil
}

type scanTxRunner struct {
	products *scanProducts
	alerts   *memAlertRepo
}

func (r *scanTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	txns repository.StockTransactionRepository,
	alerts repository.StockAlertRepository,
	orders repository.RestockOrderRepository,
) error) error {
	return fn(r.products, nil, r.alerts, nil)
}

func TestRunScan_EvaluaTodosLosActivos(t *testing.T) {
	repo := newMemAlertRepo()
	engine, rec := testEngine(repo, 30*time.Minute)
	runner := &scanTxRunner{
		products: &scanProducts{products: []*entity.Product{
			testProduct(0, 10),  // agotado
			testProduct(50, 10), // sano
		}},
		alerts: repo,
	}
	runner.products.products[1].ID = "prod-2"
	monitor := NewMonitor(engine, runner, time.Minute, logger.Nop())

	n, err := monitor.RunScan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n, "solo el producto agotado genera notificación")
	require.Len(t, rec.kinds, 1)
	assert.Equal(t, entity.AlertOutOfStock, rec.kinds[0])
}

func TestRunScan_NoDuplicaEnEscaneosSucesivos(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)
	runner := &scanTxRunner{
		products: &scanProducts{products: []*entity.Product{testProduct(0, 10)}},
		alerts:   repo,
	}
	monitor := NewMonitor(engine, runner, time.Minute, logger.Nop())
	ctx := context.Background()

	_, err := monitor.RunScan(ctx)
	require.NoError(t, err)
	_, err = monitor.RunScan(ctx)
	require.NoError(t, err)

	active, err := repo.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1, "la alerta existente se refresca, no se duplica")
}

func TestMonitor_EscaneaInmediatamenteAlArrancar(t *testing.T) {
	repo := newMemAlertRepo()
	rec := &syncNotifier{}
	registry := NewRegistry(logger.Nop())
	registry.Add(rec)
	engine := NewEngine(repo, registry, 30*time.Minute, logger.Nop())
	runner := &scanTxRunner{
		products: &scanProducts{products: []*entity.Product{testProduct(0, 10)}},
		alerts:   repo,
	}
	// Intervalo de una hora: si el primer escaneo esperara un tick
	// completo, el test nunca vería la notificación.
	monitor := NewMonitor(engine, runner, time.Hour, logger.Nop())

	monitor.Start()
	defer monitor.Stop()

	require.Eventually(t, func() bool { return rec.count() == 1 },
		2*time.Second, 10*time.Millisecond,
		"el stock ya bajo se detecta al arrancar, sin esperar el intervalo")
}

func TestMonitor_StartYStopSonIdempotentes(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)
	runner := &scanTxRunner{
		products: &scanProducts{},
		alerts:   repo,
	}
	monitor := NewMonitor(engine, runner, time.Hour, logger.Nop())

	assert.False(t, monitor.IsRunning())
	monitor.Start()
	monitor.Start() // segundo Start no arranca otro loop
	assert.True(t, monitor.IsRunning())

	monitor.Stop()
	assert.False(t, monitor.IsRunning())
	monitor.Stop() // Stop sobre monitor detenido no bloquea
}
