package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransactionFilter filtros opcionales para consultar el libro de transacciones.
type TransactionFilter struct {
	ProductID string
	Kind      string
	From      *time.Time
	To        *time.Time
	Limit     int // 0 = default del adaptador (100)
}

// StockTransactionRepository define el puerto del libro mayor append-only.
// Las transacciones se insertan una vez y nunca se modifican ni borran.
type StockTransactionRepository interface {
	Create(txn *entity.StockTransaction) error
	List(filter TransactionFilter) ([]*entity.StockTransaction, error)
}
