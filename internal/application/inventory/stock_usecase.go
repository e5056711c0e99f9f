package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockUseCase es el único camino permitido para mutar el stock de un
// producto. Cada mutación bloquea la fila del producto (SELECT FOR UPDATE),
// verifica la no-negatividad, actualiza el contador, anexa exactamente una
// transacción al libro mayor y evalúa alertas, todo en una transacción de BD.
type StockUseCase struct {
	txRunner TxRunner
	engine   *alerting.Engine
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, engine *alerting.Engine) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, engine: engine}
}

// ChangeInput entrada para una mutación de stock.
type ChangeInput struct {
	ProductID string
	Delta     int // positivo agrega, negativo quita
	Kind      string
	Reference string
	Notes     string
	Actor     string
}

// ApplyChange aplica una mutación de stock de forma atómica y despacha la
// notificación de alerta (si la hubo) después del commit.
// Falla con *domain.InsufficientStockError si el delta dejaría el stock en
// negativo, sin mutar nada.
func (uc *StockUseCase) ApplyChange(ctx context.Context, in ChangeInput) (*entity.StockTransaction, error) {
	if !entity.ValidTransactionKind(in.Kind) || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		txn   *entity.StockTransaction
		notif *alerting.Notification
	)
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		txns repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		_ repository.RestockOrderRepository,
	) error {
		product, err := products.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		// El valor histórico refleja el precio vigente al momento del commit.
		txn, notif, err = uc.ApplyChangeInTx(products, txns, alerts, product, in, product.Price)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.engine.Dispatch(notif)
	return txn, nil
}

// ApplyChangeInTx aplica la mutación usando los repositorios del caller
// (misma transacción). product debe venir bloqueado con GetForUpdate.
// Devuelve la transacción creada y la notificación pendiente de despacho;
// el caller la despacha después de su commit.
func (uc *StockUseCase) ApplyChangeInTx(
	products repository.ProductRepository,
	txns repository.StockTransactionRepository,
	alerts repository.StockAlertRepository,
	product *entity.Product,
	in ChangeInput,
	unitPrice decimal.Decimal,
) (*entity.StockTransaction, *alerting.Notification, error) {
	previous := product.CurrentStock
	newStock := previous + in.Delta
	if newStock < 0 {
		return nil, nil, &domain.InsufficientStockError{
			ProductID: product.ID,
			Current:   previous,
			Requested: in.Delta,
		}
	}

	if err := products.UpdateStock(product.ID, newStock); err != nil {
		return nil, nil, err
	}

	absDelta := in.Delta
	if absDelta < 0 {
		absDelta = -absDelta
	}
	txn := &entity.StockTransaction{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Kind:            in.Kind,
		Quantity:        in.Delta,
		PreviousStock:   previous,
		NewStock:        newStock,
		UnitPrice:       unitPrice,
		TotalValue:      unitPrice.Mul(decimal.NewFromInt(int64(absDelta))),
		ReferenceNumber: in.Reference,
		Notes:           in.Notes,
		PerformedBy:     in.Actor,
		CreatedAt:       time.Now(),
	}
	if err := txns.Create(txn); err != nil {
		return nil, nil, err
	}

	product.CurrentStock = newStock
	notif, err := uc.engine.Evaluate(product, alerts)
	if err != nil {
		return nil, nil, err
	}
	return txn, notif, nil
}

// Sell registra una venta (reduce stock).
func (uc *StockUseCase) Sell(ctx context.Context, productID string, quantity int, reference, actor string) (*entity.StockTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.ApplyChange(ctx, ChangeInput{
		ProductID: productID,
		Delta:     -quantity,
		Kind:      entity.TransactionSale,
		Reference: reference,
		Notes:     fmt.Sprintf("Venta de %d unidades", quantity),
		Actor:     actor,
	})
}

// Restock reabastece un producto (aumenta stock).
func (uc *StockUseCase) Restock(ctx context.Context, productID string, quantity int, reference, actor string) (*entity.StockTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.ApplyChange(ctx, ChangeInput{
		ProductID: productID,
		Delta:     quantity,
		Kind:      entity.TransactionRestock,
		Reference: reference,
		Notes:     fmt.Sprintf("Reabastecimiento de %d unidades", quantity),
		Actor:     actor,
	})
}

// Return procesa una devolución de cliente (aumenta stock).
func (uc *StockUseCase) Return(ctx context.Context, productID string, quantity int, reference, actor string) (*entity.StockTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.ApplyChange(ctx, ChangeInput{
		ProductID: productID,
		Delta:     quantity,
		Kind:      entity.TransactionReturn,
		Reference: reference,
		Notes:     fmt.Sprintf("Devolución de %d unidades", quantity),
		Actor:     actor,
	})
}

// MarkExpired da de baja unidades vencidas (reduce stock).
func (uc *StockUseCase) MarkExpired(ctx context.Context, productID string, quantity int, actor string) (*entity.StockTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.ApplyChange(ctx, ChangeInput{
		ProductID: productID,
		Delta:     -quantity,
		Kind:      entity.TransactionExpired,
		Notes:     fmt.Sprintf("Vencidas: %d unidades", quantity),
		Actor:     actor,
	})
}

// MarkDamaged da de baja unidades dañadas (reduce stock).
func (uc *StockUseCase) MarkDamaged(ctx context.Context, productID string, quantity int, notes, actor string) (*entity.StockTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	note := fmt.Sprintf("Dañadas: %d unidades", quantity)
	if notes != "" {
		note += ". " + notes
	}
	return uc.ApplyChange(ctx, ChangeInput{
		ProductID: productID,
		Delta:     -quantity,
		Kind:      entity.TransactionDamaged,
		Notes:     note,
		Actor:     actor,
	})
}

// AdjustTo ajusta el stock a un nivel absoluto (corrección de inventario).
// El delta se calcula con la fila bloqueada, para que dos ajustes
// concurrentes no se pisen. La razón es obligatoria: queda en el libro.
func (uc *StockUseCase) AdjustTo(ctx context.Context, productID string, targetLevel int, reason, actor string) (*entity.StockTransaction, error) {
	if targetLevel < 0 || reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		txn   *entity.StockTransaction
		notif *alerting.Notification
	)
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		txns repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		_ repository.RestockOrderRepository,
	) error {
		product, err := products.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := targetLevel - product.CurrentStock
		if delta == 0 {
			return domain.ErrConflict // ya está en ese nivel; nada que registrar
		}
		txn, notif, err = uc.ApplyChangeInTx(products, txns, alerts, product, ChangeInput{
			ProductID: productID,
			Delta:     delta,
			Kind:      entity.TransactionAdjustment,
			Notes:     "Ajuste de stock: " + reason,
			Actor:     actor,
		}, product.Price)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.engine.Dispatch(notif)
	return txn, nil
}

// EvaluateProduct corre la evaluación de alertas de un producto fuera de una
// mutación (ej. recién creado con stock inicial cero).
func (uc *StockUseCase) EvaluateProduct(ctx context.Context, productID string) error {
	var notif *alerting.Notification
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		_ repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		_ repository.RestockOrderRepository,
	) error {
		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		notif, err = uc.engine.Evaluate(product, alerts)
		return err
	})
	if err != nil {
		return err
	}
	uc.engine.Dispatch(notif)
	return nil
}
