package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// OrderFilter filtros opcionales para listar órdenes.
type OrderFilter struct {
	Status     string
	SupplierID string
	Limit      int // 0 = default del adaptador (50)
}

// RestockOrderRepository define el puerto de persistencia para el agregado
// RestockOrder. Create persiste la orden con sus líneas; GetByID/GetByNumber
// devuelven el agregado completo.
type RestockOrderRepository interface {
	Create(order *entity.RestockOrder) error
	GetByID(id string) (*entity.RestockOrder, error)
	// GetForUpdate obtiene la orden bloqueando su fila hasta el fin de la
	// transacción. Toda transición de estado relee el estado con este método
	// para que dos transiciones concurrentes se serialicen.
	GetForUpdate(id string) (*entity.RestockOrder, error)
	GetByNumber(orderNumber string) (*entity.RestockOrder, error)
	List(filter OrderFilter) ([]*entity.RestockOrder, error)
	ListAll() ([]*entity.RestockOrder, error)
	// Update persiste status, notas, fechas y updated_by. No toca TotalAmount.
	Update(order *entity.RestockOrder) error
	UpdateItemReceived(itemID string, quantityReceived int) error
}
