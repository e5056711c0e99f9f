package alerting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────

// memAlertRepo implementación en memoria del repositorio de alertas.
type memAlertRepo struct {
	alerts map[string]*entity.StockAlert
	failOn string // nombre de método que debe fallar, para tests de error
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: make(map[string]*entity.StockAlert)}
}

func (m *memAlertRepo) Create(alert *entity.StockAlert) error {
	if m.failOn == "Create" {
		return errors.New("create falló")
	}
	cp := *alert
	m.alerts[alert.ID] = &cp
	return nil
}

func (m *memAlertRepo) GetByID(id string) (*entity.StockAlert, error) {
	a, ok := m.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAlertRepo) GetActiveByProductAndKind(productID, kind string) (*entity.StockAlert, error) {
	for _, a := range m.alerts {
		if a.ProductID == productID && a.Kind == kind && a.Status == entity.AlertStatusActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAlertRepo) ListOpenByProduct(productID string) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range m.alerts {
		if a.ProductID == productID &&
			(a.Status == entity.AlertStatusActive || a.Status == entity.AlertStatusAcknowledged) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlertRepo) ListActive() ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range m.alerts {
		if a.Status == entity.AlertStatusActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlertRepo) ListActiveByKind(kind string) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range m.alerts {
		if a.Status == entity.AlertStatusActive && a.Kind == kind {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAlertRepo) Update(alert *entity.StockAlert) error {
	if _, ok := m.alerts[alert.ID]; !ok {
		return errors.New("alerta inexistente")
	}
	cp := *alert
	m.alerts[alert.ID] = &cp
	return nil
}

// recordingNotifier captura las notificaciones entregadas.
type recordingNotifier struct {
	kinds    []string
	messages []string
}

func (r *recordingNotifier) Notify(kind string, product *entity.Product, message string) error {
	r.kinds = append(r.kinds, kind)
	r.messages = append(r.messages, message)
	return nil
}

func testProduct(stock, min int) *entity.Product {
	return &entity.Product{
		ID:            "prod-1",
		SKU:           "SKU-001",
		Name:          "Leche entera",
		CurrentStock:  stock,
		MinStockLevel: min,
		IsActive:      true,
	}
}

func testEngine(repo *memAlertRepo, window time.Duration) (*Engine, *recordingNotifier) {
	rec := &recordingNotifier{}
	registry := NewRegistry(logger.Nop())
	registry.Add(rec)
	return NewEngine(repo, registry, window, logger.Nop()), rec
}

// ──────────────────────────────────────────────────────────────────────────
// Clasificación
// ──────────────────────────────────────────────────────────────────────────

func TestEvaluate_Clasificacion(t *testing.T) {
	cases := []struct {
		name  string
		stock int
		min   int
		want  string
	}{
		{"agotado", 0, 10, entity.AlertOutOfStock},
		{"negativo imposible pero agotado", 0, 0, entity.AlertOutOfStock},
		{"critico en la mitad del minimo", 5, 10, entity.AlertCriticalLow},
		{"critico bajo la mitad", 3, 10, entity.AlertCriticalLow},
		{"bajo sobre la mitad", 6, 10, entity.AlertLowStock},
		{"bajo en el minimo exacto", 10, 10, entity.AlertLowStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemAlertRepo()
			engine, _ := testEngine(repo, 30*time.Minute)

			notif, err := engine.Evaluate(testProduct(tc.stock, tc.min), repo)
			require.NoError(t, err)
			require.NotNil(t, notif, "debe producirse una notificación")
			assert.Equal(t, tc.want, notif.Kind)

			alert, err := repo.GetActiveByProductAndKind("prod-1", tc.want)
			require.NoError(t, err)
			require.NotNil(t, alert, "debe persistirse una alerta Active")
			assert.Equal(t, tc.stock, alert.StockLevelAtAlert)
		})
	}
}

func TestEvaluate_StockSanoNoAlerta(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	notif, err := engine.Evaluate(testProduct(11, 10), repo)
	require.NoError(t, err)
	assert.Nil(t, notif)
	active, _ := repo.ListActive()
	assert.Empty(t, active)
}

func TestEvaluate_ProductoInactivoSeIgnora(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	p := testProduct(0, 10)
	p.IsActive = false
	notif, err := engine.Evaluate(p, repo)
	require.NoError(t, err)
	assert.Nil(t, notif)
}

// ──────────────────────────────────────────────────────────────────────────
// Unicidad y refresco
// ──────────────────────────────────────────────────────────────────────────

func TestEvaluate_UnaSolaAlertaActivaPorTipo(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	_, err := engine.Evaluate(testProduct(3, 10), repo)
	require.NoError(t, err)
	_, err = engine.Evaluate(testProduct(2, 10), repo)
	require.NoError(t, err)

	assert.Len(t, repo.alerts, 1, "la misma condición no duplica la alerta")
	alert, _ := repo.GetActiveByProductAndKind("prod-1", entity.AlertCriticalLow)
	require.NotNil(t, alert)
	assert.Equal(t, 2, alert.StockLevelAtAlert, "el registro refleja el último nivel")
	assert.Contains(t, alert.Message, "Stock: 2")
}

func TestEvaluate_CondicionDistintaCreaOtraAlerta(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	_, err := engine.Evaluate(testProduct(6, 10), repo)
	require.NoError(t, err)
	notif, err := engine.Evaluate(testProduct(0, 10), repo)
	require.NoError(t, err)
	require.NotNil(t, notif)
	assert.Equal(t, entity.AlertOutOfStock, notif.Kind)
	assert.Len(t, repo.alerts, 2, "LOW_STOCK y OUT_OF_STOCK coexisten como registros")
}

// ──────────────────────────────────────────────────────────────────────────
// Recuperación
// ──────────────────────────────────────────────────────────────────────────

func TestEvaluate_RecuperacionResuelveTodasLasAbiertas(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	_, err := engine.Evaluate(testProduct(0, 10), repo)
	require.NoError(t, err)

	// Una de las alertas queda reconocida; también debe resolverse.
	var alertID string
	for id := range repo.alerts {
		alertID = id
	}
	ok, err := engine.Acknowledge(alertID, "María")
	require.NoError(t, err)
	require.True(t, ok)

	notif, err := engine.Evaluate(testProduct(50, 10), repo)
	require.NoError(t, err)
	assert.Nil(t, notif, "la recuperación no notifica")

	for _, a := range repo.alerts {
		assert.Equal(t, entity.AlertStatusResolved, a.Status)
		require.NotNil(t, a.ResolvedAt, "debe estamparse la hora de resolución")
	}
}

// ──────────────────────────────────────────────────────────────────────────
// Cooldown
// ──────────────────────────────────────────────────────────────────────────

func TestDispatch_CooldownSuprimeEntregaPeroNoRegistro(t *testing.T) {
	repo := newMemAlertRepo()
	engine, rec := testEngine(repo, 30*time.Minute)

	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return current }

	notif, err := engine.Evaluate(testProduct(3, 10), repo)
	require.NoError(t, err)
	engine.Dispatch(notif)
	assert.Len(t, rec.kinds, 1, "la primera notificación se entrega")

	// Misma condición cinco minutos después: registro actualizado, entrega suprimida.
	current = current.Add(5 * time.Minute)
	notif, err = engine.Evaluate(testProduct(2, 10), repo)
	require.NoError(t, err)
	engine.Dispatch(notif)
	assert.Len(t, rec.kinds, 1, "dentro de la ventana no se vuelve a entregar")

	alert, _ := repo.GetActiveByProductAndKind("prod-1", entity.AlertCriticalLow)
	require.NotNil(t, alert)
	assert.Equal(t, 2, alert.StockLevelAtAlert, "el registro sí refleja el último nivel")

	// Pasada la ventana, vuelve a entregar.
	current = current.Add(30 * time.Minute)
	notif, err = engine.Evaluate(testProduct(1, 10), repo)
	require.NoError(t, err)
	engine.Dispatch(notif)
	assert.Len(t, rec.kinds, 2, "fuera de la ventana la entrega se reanuda")
}

func TestDispatch_CooldownEsPorProductoYTipo(t *testing.T) {
	repo := newMemAlertRepo()
	engine, rec := testEngine(repo, 30*time.Minute)

	notif1, err := engine.Evaluate(testProduct(3, 10), repo)
	require.NoError(t, err)
	engine.Dispatch(notif1)

	// Otro tipo para el mismo producto no comparte cooldown.
	notif2, err := engine.Evaluate(testProduct(0, 10), repo)
	require.NoError(t, err)
	engine.Dispatch(notif2)

	assert.Equal(t, []string{entity.AlertCriticalLow, entity.AlertOutOfStock}, rec.kinds)
}

// ──────────────────────────────────────────────────────────────────────────
// Ciclo de vida manual
// ──────────────────────────────────────────────────────────────────────────

func TestAcknowledge_SoloDesdeActive(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	_, err := engine.Evaluate(testProduct(3, 10), repo)
	require.NoError(t, err)
	var alertID string
	for id := range repo.alerts {
		alertID = id
	}

	ok, err := engine.Acknowledge(alertID, "Pedro")
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := repo.GetByID(alertID)
	assert.Equal(t, entity.AlertStatusAcknowledged, got.Status)
	assert.Equal(t, "Pedro", got.AcknowledgedBy)
	require.NotNil(t, got.AcknowledgedAt)

	// Reconocer dos veces no procede.
	ok, err = engine.Acknowledge(alertID, "Pedro")
	require.NoError(t, err)
	assert.False(t, ok)

	// Alertas inexistentes tampoco.
	ok, err = engine.Acknowledge("no-existe", "Pedro")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_DesdeCualquierEstadoNoTerminal(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	_, err := engine.Evaluate(testProduct(3, 10), repo)
	require.NoError(t, err)
	var alertID string
	for id := range repo.alerts {
		alertID = id
	}

	ok, err := engine.Resolve(alertID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := repo.GetByID(alertID)
	assert.Equal(t, entity.AlertStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)

	// Resolved es terminal.
	ok, err = engine.Resolve(alertID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummary_CuentaPorTipo(t *testing.T) {
	repo := newMemAlertRepo()
	engine, _ := testEngine(repo, 30*time.Minute)

	p1 := testProduct(0, 10)
	p2 := testProduct(3, 10)
	p2.ID = "prod-2"
	p3 := testProduct(8, 10)
	p3.ID = "prod-3"

	for _, p := range []*entity.Product{p1, p2, p3} {
		_, err := engine.Evaluate(p, repo)
		require.NoError(t, err)
	}

	summary, err := engine.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary["total_active"])
	assert.Equal(t, 1, summary["out_of_stock"])
	assert.Equal(t, 1, summary["critical_low"])
	assert.Equal(t, 1, summary["low_stock"])
}
