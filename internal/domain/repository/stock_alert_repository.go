package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// StockAlertRepository define el puerto de persistencia para StockAlert (DIP).
type StockAlertRepository interface {
	Create(alert *entity.StockAlert) error
	GetByID(id string) (*entity.StockAlert, error)
	// GetActiveByProductAndKind devuelve la alerta Active del par (producto, tipo), o nil.
	GetActiveByProductAndKind(productID, kind string) (*entity.StockAlert, error)
	// ListOpenByProduct devuelve alertas Active y Acknowledged de un producto.
	ListOpenByProduct(productID string) ([]*entity.StockAlert, error)
	ListActive() ([]*entity.StockAlert, error)
	ListActiveByKind(kind string) ([]*entity.StockAlert, error)
	Update(alert *entity.StockAlert) error
}
