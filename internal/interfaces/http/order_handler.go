package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/replenishment"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// OrderHandler maneja el flujo de reabastecimiento: sugerencias y órdenes.
type OrderHandler struct {
	uc *replenishment.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *replenishment.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Suggestions godoc
// @Summary      Sugerencias de reabastecimiento para productos bajo mínimo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SuggestionResponse
// @Router       /api/orders/suggestions [get]
func (h *OrderHandler) Suggestions(c *fiber.Ctx) error {
	suggestions, err := h.uc.Suggestions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSuggestionResponses(suggestions))
}

// Create godoc
// @Summary      Crear orden de reabastecimiento
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse  "Producto no pertenece al proveedor"
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SupplierID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "supplier_id e items son requeridos"})
	}
	items := make([]replenishment.OrderItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, replenishment.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), replenishment.CreateOrderInput{
		SupplierID: in.SupplierID,
		Items:      items,
		Notes:      in.Notes,
		Actor:      GetUserName(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponse(order))
}

// AutoCreate godoc
// @Summary      Crear órdenes automáticas para todos los productos bajo mínimo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      201  {array}  dto.OrderResponse
// @Router       /api/orders/auto [post]
func (h *OrderHandler) AutoCreate(c *fiber.Ctx) error {
	orders, err := h.uc.AutoCreateOrders(c.Context(), GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponses(orders))
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(order))
}

// GetByNumber godoc
// @Summary      Obtener orden por número PO
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de orden (PO-...)"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	order, err := h.uc.GetOrderByNumber(c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Filtrar por estado"
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.Orders(repository.OrderFilter{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier_id"),
		Limit:      c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponses(orders))
}

// Pending godoc
// @Summary      Listar órdenes pendientes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/pending [get]
func (h *OrderHandler) Pending(c *fiber.Ctx) error {
	orders, err := h.uc.Orders(repository.OrderFilter{Status: entity.OrderStatusPending})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponses(orders))
}

// Confirm godoc
// @Summary      Confirmar orden (enviada al proveedor)
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "Transición inválida"
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	if err := h.uc.Confirm(c.Context(), c.Params("id"), GetUserName(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ship godoc
// @Summary      Marcar orden como despachada por el proveedor
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "Transición inválida"
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	if err := h.uc.Ship(c.Context(), c.Params("id"), GetUserName(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receive godoc
// @Summary      Recibir orden y aplicar las entradas al stock
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  false  "Cantidades recibidas por producto"
// @Success      200   {array}  dto.TransactionResponse
// @Failure      409   {object}  dto.ErrorResponse  "La orden no es recibible"
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	txns, err := h.uc.Receive(c.Context(), c.Params("id"), in.ReceivedQuantities, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToTransactionResponses(txns))
}

// Cancel godoc
// @Summary      Cancelar orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                  true   "ID de la orden"
// @Param        body  body  dto.CancelOrderRequest  false  "Razón de cancelación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "Transición inválida"
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.Cancel(c.Context(), c.Params("id"), in.Reason, GetUserName(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Resumen de órdenes por estado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderSummaryResponse
// @Router       /api/orders/summary [get]
func (h *OrderHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderSummaryResponse{
		TotalOrders:         summary.TotalOrders,
		Pending:             summary.Pending,
		Confirmed:           summary.Confirmed,
		Shipped:             summary.Shipped,
		Delivered:           summary.Delivered,
		Cancelled:           summary.Cancelled,
		TotalValuePending:   summary.TotalValuePending,
		TotalValueDelivered: summary.TotalValueDelivered,
	})
}

// SupplierHistory godoc
// @Summary      Historial de órdenes de un proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierHistoryResponse
// @Router       /api/suppliers/{id}/orders/history [get]
func (h *OrderHandler) SupplierHistory(c *fiber.Ctx) error {
	supplierID := c.Params("id")
	history, err := h.uc.HistoryBySupplier(supplierID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SupplierHistoryResponse{
		SupplierID:          supplierID,
		TotalOrders:         history.TotalOrders,
		DeliveredOrders:     history.DeliveredOrders,
		CancelledOrders:     history.CancelledOrders,
		TotalValue:          history.TotalValue,
		AverageDeliveryDays: history.AverageDeliveryDays,
	})
}

// QuickRestock godoc
// @Summary      Reabastecimiento directo sin orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID del producto"
// @Param        body  body  dto.QuickRestockRequest  false  "Cantidad (0 usa la cantidad de reorden)"
// @Success      201   {object}  dto.TransactionResponse
// @Router       /api/orders/quick-restock/{id} [post]
func (h *OrderHandler) QuickRestock(c *fiber.Ctx) error {
	var in dto.QuickRestockRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	txn, err := h.uc.QuickRestock(c.Context(), c.Params("id"), in.Quantity, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// QuickRestockAll godoc
// @Summary      Reabastecimiento directo de todos los productos bajo mínimo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      201  {array}  dto.TransactionResponse
// @Router       /api/orders/quick-restock [post]
func (h *OrderHandler) QuickRestockAll(c *fiber.Ctx) error {
	txns, err := h.uc.QuickRestockAllLow(c.Context(), GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponses(txns))
}
