package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByName(name string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Deactivate(id string) error
	List(activeOnly bool) ([]*entity.Supplier, error)
}
