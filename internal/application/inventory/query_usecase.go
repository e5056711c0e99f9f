package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockValue valoración del inventario a costo y a precio de venta.
type StockValue struct {
	CostValue       decimal.Decimal
	RetailValue     decimal.Decimal
	PotentialProfit decimal.Decimal
}

// StockSummary resumen general del inventario.
type StockSummary struct {
	TotalProducts    int
	TotalUnits       int
	LowStockCount    int
	OutOfStockCount  int
	OverstockedCount int
	Value            StockValue
}

// QueryUseCase consultas de solo lectura sobre el libro y los niveles de
// stock. No muta nada; usa repositorios atados al pool.
type QueryUseCase struct {
	productRepo repository.ProductRepository
	txnRepo     repository.StockTransactionRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(productRepo repository.ProductRepository, txnRepo repository.StockTransactionRepository) *QueryUseCase {
	return &QueryUseCase{productRepo: productRepo, txnRepo: txnRepo}
}

// Transactions devuelve el historial con filtros opcionales
// (producto, tipo, rango de fechas, límite).
func (uc *QueryUseCase) Transactions(filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	return uc.txnRepo.List(filter)
}

// RecentTransactions devuelve las transacciones más recientes.
func (uc *QueryUseCase) RecentTransactions(limit int) ([]*entity.StockTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.txnRepo.List(repository.TransactionFilter{Limit: limit})
}

// LowStockProducts devuelve productos activos en o bajo su mínimo.
func (uc *QueryUseCase) LowStockProducts() ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}

// OutOfStockProducts devuelve productos activos agotados.
func (uc *QueryUseCase) OutOfStockProducts() ([]*entity.Product, error) {
	return uc.productRepo.ListOutOfStock()
}

// OverstockedProducts devuelve productos activos sobre su máximo.
func (uc *QueryUseCase) OverstockedProducts() ([]*entity.Product, error) {
	return uc.productRepo.ListOverstocked()
}

// Value calcula el valor total del inventario activo.
func (uc *QueryUseCase) Value() (*StockValue, error) {
	products, err := uc.productRepo.List(true, 0, 0)
	if err != nil {
		return nil, err
	}
	return valueOf(products), nil
}

// Summary devuelve el resumen general del inventario.
func (uc *QueryUseCase) Summary() (*StockSummary, error) {
	products, err := uc.productRepo.List(true, 0, 0)
	if err != nil {
		return nil, err
	}
	summary := &StockSummary{
		TotalProducts: len(products),
		Value:         *valueOf(products),
	}
	for _, p := range products {
		summary.TotalUnits += p.CurrentStock
		if p.IsLowStock() {
			summary.LowStockCount++
		}
		if p.IsOutOfStock() {
			summary.OutOfStockCount++
		}
		if p.IsOverstocked() {
			summary.OverstockedCount++
		}
	}
	return summary, nil
}

func valueOf(products []*entity.Product) *StockValue {
	cost := decimal.Zero
	retail := decimal.Zero
	for _, p := range products {
		qty := decimal.NewFromInt(int64(p.CurrentStock))
		cost = cost.Add(qty.Mul(p.Cost))
		retail = retail.Add(qty.Mul(p.Price))
	}
	return &StockValue{
		CostValue:       cost.Round(2),
		RetailValue:     retail.Round(2),
		PotentialProfit: retail.Sub(cost).Round(2),
	}
}
