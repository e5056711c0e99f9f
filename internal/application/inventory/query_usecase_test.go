package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ValoraACostoYPrecio(t *testing.T) {
	p1 := milkProduct(10) // costo 1.80, precio 2.50
	p2 := milkProduct(4)
	p2.ID = "prod-2"
	p2.Cost = decimal.NewFromFloat(0.75)
	p2.Price = decimal.NewFromFloat(1.20)
	s := newMemStore(p1, p2)

	uc := NewQueryUseCase(&memProducts{s}, &memTxns{s})
	value, err := uc.Value()
	require.NoError(t, err)

	// 10*1.80 + 4*0.75 = 21.00 ; 10*2.50 + 4*1.20 = 29.80
	assert.True(t, value.CostValue.Equal(decimal.NewFromFloat(21.00)))
	assert.True(t, value.RetailValue.Equal(decimal.NewFromFloat(29.80)))
	assert.True(t, value.PotentialProfit.Equal(decimal.NewFromFloat(8.80)))
}

func TestSummary_ClasificaNiveles(t *testing.T) {
	healthy := milkProduct(50)
	low := milkProduct(5)
	low.ID = "prod-2"
	out := milkProduct(0)
	out.ID = "prod-3"
	over := milkProduct(200)
	over.ID = "prod-4"
	over.MaxStockLevel = 100
	inactive := milkProduct(0)
	inactive.ID = "prod-5"
	inactive.IsActive = false
	s := newMemStore(healthy, low, out, over, inactive)

	uc := NewQueryUseCase(&memProducts{s}, &memTxns{s})
	summary, err := uc.Summary()
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalProducts, "los inactivos no cuentan")
	assert.Equal(t, 255, summary.TotalUnits)
	assert.Equal(t, 2, summary.LowStockCount, "bajo incluye agotado")
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.Equal(t, 1, summary.OverstockedCount)
}

func TestRecentTransactions_LimiteDeFiltro(t *testing.T) {
	s := newMemStore(milkProduct(100))
	stockUC, _ := newTestStockUC(s)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := stockUC.Sell(ctx, "prod-1", 1, "", "Ana")
		require.NoError(t, err)
	}

	uc := NewQueryUseCase(&memProducts{s}, &memTxns{s})
	txns, err := uc.RecentTransactions(0)
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}
