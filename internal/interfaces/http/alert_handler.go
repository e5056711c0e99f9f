package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AlertHandler maneja las consultas y el ciclo de vida manual de alertas.
type AlertHandler struct {
	engine *alerting.Engine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine *alerting.Engine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// List godoc
// @Summary      Listar alertas activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "Filtrar por tipo (LOW_STOCK, OUT_OF_STOCK, CRITICAL_LOW)"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	kind := c.Query("kind")
	var err error
	var alerts []*entity.StockAlert
	if kind != "" {
		alerts, err = h.engine.ActiveAlertsByKind(kind)
	} else {
		alerts, err = h.engine.ActiveAlerts()
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAlertResponses(alerts))
}

// Acknowledge godoc
// @Summary      Reconocer una alerta activa
// @Tags         alerts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	ok, err := h.engine.Acknowledge(c.Params("id"), GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada o no está activa"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Resolve godoc
// @Summary      Resolver manualmente una alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	ok, err := h.engine.Resolve(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada o ya resuelta"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Conteo de alertas activas por tipo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/summary [get]
func (h *AlertHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.engine.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
