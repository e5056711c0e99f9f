package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// CurrentStock se actualiza solo vía UpdateStock dentro de una transacción
// con la fila bloqueada (GetForUpdate).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, newStock int) error
	Deactivate(id string) error
	List(activeOnly bool, limit, offset int) ([]*entity.Product, error)
	Search(term string) ([]*entity.Product, error)
	ListBySupplier(supplierID string, activeOnly bool) ([]*entity.Product, error)
	// ListLowStock devuelve productos activos con stock <= mínimo, peor déficit primero.
	ListLowStock() ([]*entity.Product, error)
	ListOutOfStock() ([]*entity.Product, error)
	ListOverstocked() ([]*entity.Product, error)
}
