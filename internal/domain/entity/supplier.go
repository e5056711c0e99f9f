package entity

import "time"

// Supplier representa un proveedor. Es referencia independiente de productos
// y órdenes de reabastecimiento (1-a-muchos, sin lado propietario).
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	ZipCode       string
	Country       string
	LeadTimeDays  int // días promedio de entrega; calcula la fecha esperada de la orden
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
