package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// InsufficientStockError indica que un movimiento dejaría el stock en negativo.
// Lleva el stock actual y el delta solicitado para que el caller sepa exactamente qué falló.
type InsufficientStockError struct {
	ProductID string
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: actual %d, cambio solicitado %d (producto %s)",
		e.Current, e.Requested, e.ProductID)
}

// InvalidOrderStateError indica una transición de orden de reabastecimiento no permitida.
// Nombra el estado actual y el solicitado.
type InvalidOrderStateError struct {
	OrderID   string
	Current   string
	Requested string
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("transición de orden inválida: de %q a %q (orden %s)",
		e.Current, e.Requested, e.OrderID)
}

// SupplierMismatchError indica que un producto no pertenece al proveedor de la orden.
type SupplierMismatchError struct {
	ProductID   string
	ProductName string
	SupplierID  string
}

func (e *SupplierMismatchError) Error() string {
	return fmt.Sprintf("el producto %q (%s) no pertenece al proveedor %s",
		e.ProductName, e.ProductID, e.SupplierID)
}
