package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de stock, el
// registro en el libro mayor y la evaluación de alertas viajen en una sola
// unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		txns repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error) error
}
