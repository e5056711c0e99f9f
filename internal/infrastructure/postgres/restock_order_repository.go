package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.RestockOrderRepository = (*RestockOrderRepo)(nil)

const orderColumns = `id, order_number, supplier_id, status, total_amount, notes,
	order_date, expected_delivery, actual_delivery, created_by, updated_by,
	created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, quantity_ordered,
	quantity_received, unit_cost, total_price`

// RestockOrderRepo implementación del puerto RestockOrderRepository sobre
// PostgreSQL (usable con pool o tx). Trabaja sobre el agregado completo:
// las lecturas siempre traen las líneas de la orden.
type RestockOrderRepo struct {
	q Querier
}

// NewRestockOrderRepository construye el adaptador de persistencia para órdenes.
func NewRestockOrderRepository(q Querier) *RestockOrderRepo {
	return &RestockOrderRepo{q: q}
}

// Create persiste la orden con sus líneas.
func (r *RestockOrderRepo) Create(order *entity.RestockOrder) error {
	query := `
		INSERT INTO restock_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.SupplierID, order.Status, order.TotalAmount,
		order.Notes, order.OrderDate, order.ExpectedDelivery, order.ActualDelivery,
		order.CreatedBy, order.UpdatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert restock order: %w", err)
	}

	itemQuery := `
		INSERT INTO restock_order_items (` + orderItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range order.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, item.OrderID, item.ProductID, item.QuantityOrdered,
			item.QuantityReceived, item.UnitCost, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert restock order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden completa por ID.
func (r *RestockOrderRepo) GetByID(id string) (*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene una orden completa bloqueando la fila de la cabecera
// (SELECT ... FOR UPDATE). Dentro de una transacción serializa las
// transiciones de estado concurrentes sobre la misma orden.
func (r *RestockOrderRepo) GetForUpdate(id string) (*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetByNumber obtiene una orden completa por su número PO.
func (r *RestockOrderRepo) GetByNumber(orderNumber string) (*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE order_number = $1`
	return r.getOne(query, orderNumber)
}

func (r *RestockOrderRepo) getOne(query string, arg any) (*entity.RestockOrder, error) {
	order, err := scanOrder(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restock order: %w", err)
	}
	if err := r.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// List lista órdenes con filtros opcionales, más reciente primero.
func (r *RestockOrderRepo) List(filter repository.OrderFilter) ([]*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		query += ` AND supplier_id = $` + strconv.Itoa(len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` ORDER BY order_date DESC LIMIT $` + strconv.Itoa(len(args))
	return r.listWith(query, args...)
}

// ListAll lista todas las órdenes sin límite (para resúmenes).
func (r *RestockOrderRepo) ListAll() ([]*entity.RestockOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM restock_orders ORDER BY order_date DESC`
	return r.listWith(query)
}

func (r *RestockOrderRepo) listWith(query string, args ...any) ([]*entity.RestockOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restock orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.RestockOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restock order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	for _, order := range orders {
		if err := r.loadItems(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update persiste status, notas, fechas y updated_by. TotalAmount y las
// cantidades de las líneas no se tocan por esta vía.
func (r *RestockOrderRepo) Update(order *entity.RestockOrder) error {
	query := `
		UPDATE restock_orders
		SET status = $2, notes = $3, expected_delivery = $4, actual_delivery = $5,
			updated_by = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.Notes, order.ExpectedDelivery,
		order.ActualDelivery, order.UpdatedBy, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update restock order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemReceived fija la cantidad recibida de una línea.
func (r *RestockOrderRepo) UpdateItemReceived(itemID string, quantityReceived int) error {
	query := `UPDATE restock_order_items SET quantity_received = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, quantityReceived)
	if err != nil {
		return fmt.Errorf("update restock order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.RestockOrder, error) {
	var o entity.RestockOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.SupplierID, &o.Status, &o.TotalAmount, &o.Notes,
		&o.OrderDate, &o.ExpectedDelivery, &o.ActualDelivery, &o.CreatedBy, &o.UpdatedBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *RestockOrderRepo) loadItems(order *entity.RestockOrder) error {
	query := `
		SELECT ` + orderItemColumns + `
		FROM restock_order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, order.ID)
	if err != nil {
		return fmt.Errorf("list restock order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.RestockOrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.QuantityOrdered,
			&item.QuantityReceived, &item.UnitCost, &item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("scan restock order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
