package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, category, unit, price, cost,
	current_stock, min_stock_level, max_stock_level, reorder_quantity,
	barcode, brand, location, supplier_id, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Unit, &p.Price, &p.Cost,
		&p.CurrentStock, &p.MinStockLevel, &p.MaxStockLevel, &p.ReorderQuantity,
		&p.Barcode, &p.Brand, &p.Location, &p.SupplierID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, product.Category,
		product.Unit, product.Price, product.Cost, product.CurrentStock,
		product.MinStockLevel, product.MaxStockLevel, product.ReorderQuantity,
		product.Barcode, product.Brand, product.Location, product.SupplierID,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene un producto bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables. current_stock no se toca por esta vía.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, unit = $5, price = $6,
			cost = $7, min_stock_level = $8, max_stock_level = $9,
			reorder_quantity = $10, barcode = $11, brand = $12, location = $13,
			supplier_id = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Category, product.Unit,
		product.Price, product.Cost, product.MinStockLevel, product.MaxStockLevel,
		product.ReorderQuantity, product.Barcode, product.Brand, product.Location,
		product.SupplierID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock actual. Se llama solo con la fila bloqueada.
func (r *ProductRepo) UpdateStock(id string, newStock int) error {
	query := `UPDATE products SET current_stock = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, newStock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate marca el producto como inactivo (soft delete).
func (r *ProductRepo) Deactivate(id string) error {
	query := `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por nombre. limit 0 devuelve todos.
func (r *ProductRepo) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ($1 = FALSE OR is_active) ORDER BY name`
	args := []any{activeOnly}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Search busca productos activos por nombre, SKU, código de barras o marca.
func (r *ProductRepo) Search(term string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND (name ILIKE $1 OR sku ILIKE $1 OR barcode ILIKE $1 OR brand ILIKE $1)
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collectProducts(rows)
}

// ListBySupplier lista productos de un proveedor.
func (r *ProductRepo) ListBySupplier(supplierID string, activeOnly bool) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE supplier_id = $1 AND ($2 = FALSE OR is_active)
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, supplierID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list products by supplier: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStock lista productos activos con stock en o bajo el mínimo,
// peor déficit primero.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND current_stock <= min_stock_level
		ORDER BY current_stock - min_stock_level, name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

// ListOutOfStock lista productos activos agotados.
func (r *ProductRepo) ListOutOfStock() ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND current_stock <= 0
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list out of stock: %w", err)
	}
	return collectProducts(rows)
}

// ListOverstocked lista productos activos por encima de su máximo configurado.
func (r *ProductRepo) ListOverstocked() ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND max_stock_level > 0 AND current_stock > max_stock_level
		ORDER BY current_stock - max_stock_level DESC, name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list overstocked: %w", err)
	}
	return collectProducts(rows)
}
