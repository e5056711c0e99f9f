package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, product_id, kind, quantity, previous_stock, new_stock,
	unit_price, total_value, reference_number, notes, performed_by, created_at`

// StockTransactionRepo implementación del libro mayor sobre PostgreSQL.
// Solo inserta y lee: el libro es append-only y no expone Update ni Delete.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador del libro de transacciones.
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una transacción en el libro.
func (r *StockTransactionRepo) Create(txn *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.ProductID, txn.Kind, txn.Quantity, txn.PreviousStock, txn.NewStock,
		txn.UnitPrice, txn.TotalValue, txn.ReferenceNumber, txn.Notes, txn.PerformedBy, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// List consulta el libro con filtros opcionales, más reciente primero.
func (r *StockTransactionRepo) List(filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE 1=1`
	var args []any
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += ` AND product_id = $` + strconv.Itoa(len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()

	var txns []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		err := rows.Scan(
			&t.ID, &t.ProductID, &t.Kind, &t.Quantity, &t.PreviousStock, &t.NewStock,
			&t.UnitPrice, &t.TotalValue, &t.ReferenceNumber, &t.Notes, &t.PerformedBy, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
