package entity

import "time"

// Tipos de alerta (códigos estables usados a través de la API).
// AlertExpiringSoon está reservado: ningún camino de evaluación lo produce aún.
const (
	AlertLowStock     = "LOW_STOCK"
	AlertOutOfStock   = "OUT_OF_STOCK"
	AlertCriticalLow  = "CRITICAL_LOW"
	AlertExpiringSoon = "EXPIRING_SOON"
)

// Estados del ciclo de vida de una alerta. Resolved es terminal.
const (
	AlertStatusActive       = "Active"
	AlertStatusAcknowledged = "Acknowledged"
	AlertStatusResolved     = "Resolved"
)

// StockAlert es una advertencia derivada del nivel de stock de un producto.
// Invariante: a lo sumo una alerta Active por par (producto, tipo).
type StockAlert struct {
	ID                string
	ProductID         string
	Kind              string
	Message           string
	Status            string
	StockLevelAtAlert int // snapshot del stock al crear la alerta
	AcknowledgedBy    string
	AcknowledgedAt    *time.Time
	ResolvedAt        *time.Time
	CreatedAt         time.Time
}
