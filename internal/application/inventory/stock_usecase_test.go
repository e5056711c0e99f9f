package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────

type memStore struct {
	products map[string]*entity.Product
	txns     []*entity.StockTransaction
	alerts   map[string]*entity.StockAlert
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{
		products: make(map[string]*entity.Product),
		alerts:   make(map[string]*entity.StockAlert),
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

type memProducts struct{ s *memStore }

func (m *memProducts) Create(p *entity.Product) error {
	cp := *p
	m.s.products[p.ID] = &cp
	return nil
}
func (m *memProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (m *memProducts) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range m.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memProducts) GetForUpdate(id string) (*entity.Product, error) { return m.GetByID(id) }
func (m *memProducts) Update(p *entity.Product) error {
	if _, ok := m.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	m.s.products[p.ID] = &cp
	return nil
}
func (m *memProducts) UpdateStock(id string, newStock int) error {
	p, ok := m.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = newStock
	return nil
}
func (m *memProducts) Deactivate(id string) error {
	p, ok := m.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}
func (m *memProducts) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.s.products {
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
func (m *memProducts) Search(term string) ([]*entity.Product, error) { return nil, nil }
func (m *memProducts) ListBySupplier(supplierID string, activeOnly bool) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.s.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *memProducts) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.s.products {
		if p.IsActive && p.IsLowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *memProducts) ListOutOfStock() ([]*entity.Product, error)  { return nil, nil }
func (m *memProducts) ListOverstocked() ([]*entity.Product, error) { return nil, nil }

type memTxns struct{ s *memStore }

func (m *memTxns) Create(txn *entity.StockTransaction) error {
	cp := *txn
	m.s.txns = append(m.s.txns, &cp)
	return nil
}
func (m *memTxns) List(filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, t := range m.s.txns {
		if filter.ProductID != "" && t.ProductID != filter.ProductID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type memAlerts struct{ s *memStore }

func (m *memAlerts) Create(a *entity.StockAlert) error {
	cp := *a
	m.s.alerts[a.ID] = &cp
	return nil
}
func (m *memAlerts) GetByID(id string) (*entity.StockAlert, error) {
	a, ok := m.s.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}
func (m *memAlerts) GetActiveByProductAndKind(productID, kind string) (*entity.StockAlert, error) {
	for _, a := range m.s.alerts {
		if a.ProductID == productID && a.Kind == kind && a.Status == entity.AlertStatusActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}
func (m *memAlerts) ListOpenByProduct(productID string) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range m.s.alerts {
		if a.ProductID == productID &&
			(a.Status == entity.AlertStatusActive || a.Status == entity.AlertStatusAcknowledged) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *memAlerts) ListActive() ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	for _, a := range m.s.alerts {
		if a.Status == entity.AlertStatusActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *memAlerts) ListActiveByKind(kind string) ([]*entity.StockAlert, error) { return nil, nil }
func (m *memAlerts) Update(a *entity.StockAlert) error {
	if _, ok := m.s.alerts[a.ID]; !ok {
		return errors.New("alerta inexistente")
	}
	cp := *a
	m.s.alerts[a.ID] = &cp
	return nil
}

// memTxRunner ejecuta el callback directamente sobre el almacén compartido.
// No simula rollback: los tests verifican que las operaciones fallidas no
// llegan a mutar nada antes de devolver error.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	txns repository.StockTransactionRepository,
	alerts repository.StockAlertRepository,
	orders repository.RestockOrderRepository,
) error) error {
	return fn(&memProducts{r.s}, &memTxns{r.s}, &memAlerts{r.s}, nil)
}

type captureNotifier struct{ kinds []string }

func (c *captureNotifier) Notify(kind string, _ *entity.Product, _ string) error {
	c.kinds = append(c.kinds, kind)
	return nil
}

func newTestStockUC(s *memStore) (*StockUseCase, *captureNotifier) {
	rec := &captureNotifier{}
	registry := alerting.NewRegistry(logger.Nop())
	registry.Add(rec)
	engine := alerting.NewEngine(&memAlerts{s}, registry, 30*time.Minute, logger.Nop())
	return NewStockUseCase(&memTxRunner{s}, engine), rec
}

func milkProduct(stock int) *entity.Product {
	return &entity.Product{
		ID:            "prod-1",
		SKU:           "SKU-001",
		Name:          "Leche entera",
		Price:         decimal.NewFromFloat(2.50),
		Cost:          decimal.NewFromFloat(1.80),
		CurrentStock:  stock,
		MinStockLevel: 10,
		IsActive:      true,
	}
}

// ──────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────

func TestSell_ReduceStockYAnotaEnElLibro(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)

	txn, err := uc.Sell(context.Background(), "prod-1", 5, "TICKET-42", "Ana")
	require.NoError(t, err)

	assert.Equal(t, 15, s.products["prod-1"].CurrentStock)
	assert.Equal(t, -5, txn.Quantity)
	assert.Equal(t, 20, txn.PreviousStock)
	assert.Equal(t, 15, txn.NewStock)
	assert.Equal(t, txn.NewStock, txn.PreviousStock+txn.Quantity,
		"invariante del libro: previous + quantity == new")
	assert.Equal(t, entity.TransactionSale, txn.Kind)
	assert.Equal(t, "TICKET-42", txn.ReferenceNumber)
	assert.Equal(t, "Ana", txn.PerformedBy)
	require.Len(t, s.txns, 1, "exactamente una transacción por mutación")
}

func TestSell_StockInsuficienteNoMutaNada(t *testing.T) {
	s := newMemStore(milkProduct(3))
	uc, _ := newTestStockUC(s)

	_, err := uc.Sell(context.Background(), "prod-1", 4, "", "Ana")

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Current)
	assert.Equal(t, -4, insufficient.Requested)
	assert.Equal(t, 3, s.products["prod-1"].CurrentStock, "el stock no cambia")
	assert.Empty(t, s.txns, "no se anota nada en el libro")
}

func TestSell_HastaCeroEsValido(t *testing.T) {
	s := newMemStore(milkProduct(3))
	uc, _ := newTestStockUC(s)

	txn, err := uc.Sell(context.Background(), "prod-1", 3, "", "Ana")
	require.NoError(t, err)
	assert.Equal(t, 0, txn.NewStock)
	assert.Equal(t, 0, s.products["prod-1"].CurrentStock)
}

func TestApplyChange_ValorHistoricoUsaPrecioVigente(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)

	txn, err := uc.Sell(context.Background(), "prod-1", 4, "", "Ana")
	require.NoError(t, err)

	assert.True(t, txn.UnitPrice.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, txn.TotalValue.Equal(decimal.NewFromFloat(10.00)),
		"total = |cantidad| * precio vigente")
}

func TestApplyChange_EntradasInvalidas(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)
	ctx := context.Background()

	_, err := uc.Sell(ctx, "prod-1", 0, "", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Restock(ctx, "prod-1", -5, "", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyChange(ctx, ChangeInput{ProductID: "prod-1", Delta: 5, Kind: "Teleport"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Sell(ctx, "no-existe", 1, "", "Ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReturn_YRestock_Aumentan(t *testing.T) {
	s := newMemStore(milkProduct(5))
	uc, _ := newTestStockUC(s)
	ctx := context.Background()

	_, err := uc.Return(ctx, "prod-1", 2, "TICKET-9", "Ana")
	require.NoError(t, err)
	_, err = uc.Restock(ctx, "prod-1", 30, "PO-1", "Ana")
	require.NoError(t, err)

	assert.Equal(t, 37, s.products["prod-1"].CurrentStock)
	require.Len(t, s.txns, 2)
	assert.Equal(t, entity.TransactionReturn, s.txns[0].Kind)
	assert.Equal(t, entity.TransactionRestock, s.txns[1].Kind)
}

func TestMarkExpiredYDamaged_Reducen(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)
	ctx := context.Background()

	_, err := uc.MarkExpired(ctx, "prod-1", 3, "Ana")
	require.NoError(t, err)
	txn, err := uc.MarkDamaged(ctx, "prod-1", 2, "caja aplastada", "Ana")
	require.NoError(t, err)

	assert.Equal(t, 15, s.products["prod-1"].CurrentStock)
	assert.Contains(t, txn.Notes, "caja aplastada")
}

// ──────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────

func TestAdjustTo_CalculaElDelta(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)

	txn, err := uc.AdjustTo(context.Background(), "prod-1", 12, "conteo físico", "Ana")
	require.NoError(t, err)

	assert.Equal(t, -8, txn.Quantity)
	assert.Equal(t, entity.TransactionAdjustment, txn.Kind)
	assert.Contains(t, txn.Notes, "conteo físico")
	assert.Equal(t, 12, s.products["prod-1"].CurrentStock)
}

func TestAdjustTo_MismoNivelNoRegistra(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)

	_, err := uc.AdjustTo(context.Background(), "prod-1", 20, "conteo físico", "Ana")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, s.txns)
}

func TestAdjustTo_RequiereRazon(t *testing.T) {
	s := newMemStore(milkProduct(20))
	uc, _ := newTestStockUC(s)

	_, err := uc.AdjustTo(context.Background(), "prod-1", 12, "", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AdjustTo(context.Background(), "prod-1", -1, "conteo", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────
// Integración con el motor de alertas
// ──────────────────────────────────────────────────────────────────────────

func TestSell_CruzarElUmbralDisparaAlerta(t *testing.T) {
	s := newMemStore(milkProduct(12))
	uc, rec := newTestStockUC(s)

	// 12 -> 8 con mínimo 10: queda bajo y se notifica.
	_, err := uc.Sell(context.Background(), "prod-1", 4, "", "Ana")
	require.NoError(t, err)

	require.Len(t, rec.kinds, 1)
	assert.Equal(t, entity.AlertLowStock, rec.kinds[0])
	require.Len(t, s.alerts, 1)
}

func TestRestock_RecuperacionResuelveLasAlertas(t *testing.T) {
	s := newMemStore(milkProduct(12))
	uc, _ := newTestStockUC(s)
	ctx := context.Background()

	_, err := uc.Sell(ctx, "prod-1", 10, "", "Ana")
	require.NoError(t, err)
	require.NotEmpty(t, s.alerts)

	_, err = uc.Restock(ctx, "prod-1", 50, "PO-1", "Ana")
	require.NoError(t, err)

	for _, a := range s.alerts {
		assert.Equal(t, entity.AlertStatusResolved, a.Status)
	}
}

func TestEvaluateProduct_SinMutacion(t *testing.T) {
	s := newMemStore(milkProduct(0))
	uc, rec := newTestStockUC(s)

	err := uc.EvaluateProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, rec.kinds, 1)
	assert.Equal(t, entity.AlertOutOfStock, rec.kinds[0])

	err = uc.EvaluateProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
