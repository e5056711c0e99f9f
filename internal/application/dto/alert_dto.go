package dto

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AlertResponse salida de una alerta de stock.
type AlertResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	Kind              string     `json:"kind"`
	Message           string     `json:"message"`
	Status            string     `json:"status"`
	StockLevelAtAlert int        `json:"stock_level_at_alert"`
	AcknowledgedBy    string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt    *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToAlertResponse convierte la entidad a su DTO de salida.
func ToAlertResponse(a *entity.StockAlert) *AlertResponse {
	return &AlertResponse{
		ID:                a.ID,
		ProductID:         a.ProductID,
		Kind:              a.Kind,
		Message:           a.Message,
		Status:            a.Status,
		StockLevelAtAlert: a.StockLevelAtAlert,
		AcknowledgedBy:    a.AcknowledgedBy,
		AcknowledgedAt:    a.AcknowledgedAt,
		ResolvedAt:        a.ResolvedAt,
		CreatedAt:         a.CreatedAt,
	}
}

// ToAlertResponses convierte una lista de entidades.
func ToAlertResponses(alerts []*entity.StockAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, *ToAlertResponse(a))
	}
	return out
}
