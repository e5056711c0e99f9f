package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock (códigos estables de la API).
const (
	TransactionSale       = "Sale"
	TransactionRestock    = "Restock"
	TransactionReturn     = "Return"
	TransactionAdjustment = "Adjustment"
	TransactionExpired    = "Expired"
	TransactionDamaged    = "Damaged"
)

// ValidTransactionKind verifica que el tipo sea uno de los códigos conocidos.
func ValidTransactionKind(kind string) bool {
	switch kind {
	case TransactionSale, TransactionRestock, TransactionReturn,
		TransactionAdjustment, TransactionExpired, TransactionDamaged:
		return true
	}
	return false
}

// StockTransaction es el registro inmutable de un cambio de stock (libro mayor).
// Invariante: PreviousStock + Quantity == NewStock, y NewStock coincide con el
// stock del producto al momento del commit. Se crea exactamente una vez por
// mutación; nunca se modifica ni se borra.
type StockTransaction struct {
	ID              string
	ProductID       string
	Kind            string
	Quantity        int // positivo entradas, negativo salidas
	PreviousStock   int
	NewStock        int
	UnitPrice       decimal.Decimal // precio vigente al momento de la transacción
	TotalValue      decimal.Decimal // abs(Quantity) * UnitPrice
	ReferenceNumber string          // número de orden, factura, etc.
	Notes           string
	PerformedBy     string
	CreatedAt       time.Time
}
