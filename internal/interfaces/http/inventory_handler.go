package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// InventoryHandler maneja las mutaciones de stock y las consultas del libro.
type InventoryHandler struct {
	stockUC *inventory.StockUseCase
	queryUC *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stockUC *inventory.StockUseCase, queryUC *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{stockUC: stockUC, queryUC: queryUC}
}

func parseChange(c *fiber.Ctx) (dto.StockChangeRequest, error) {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return in, err
	}
	return in, nil
}

// Sell godoc
// @Summary      Registrar venta (salida de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad y referencia"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/inventory/{id}/sell [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	in, err := parseChange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.stockUC.Sell(c.Context(), c.Params("id"), in.Quantity, in.Reference, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// Restock godoc
// @Summary      Registrar reposición (entrada de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad y referencia"
// @Success      201   {object}  dto.TransactionResponse
// @Router       /api/inventory/{id}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	in, err := parseChange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.stockUC.Restock(c.Context(), c.Params("id"), in.Quantity, in.Reference, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// Return godoc
// @Summary      Registrar devolución de cliente (entrada de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad y referencia"
// @Success      201   {object}  dto.TransactionResponse
// @Router       /api/inventory/{id}/return [post]
func (h *InventoryHandler) Return(c *fiber.Ctx) error {
	in, err := parseChange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.stockUC.Return(c.Context(), c.Params("id"), in.Quantity, in.Reference, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// MarkExpired godoc
// @Summary      Dar de baja unidades vencidas (salida de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad"
// @Success      201   {object}  dto.TransactionResponse
// @Router       /api/inventory/{id}/expired [post]
func (h *InventoryHandler) MarkExpired(c *fiber.Ctx) error {
	in, err := parseChange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.stockUC.MarkExpired(c.Context(), c.Params("id"), in.Quantity, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// MarkDamaged godoc
// @Summary      Dar de baja unidades dañadas (salida de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad y notas"
// @Success      201   {object}  dto.TransactionResponse
// @Router       /api/inventory/{id}/damaged [post]
func (h *InventoryHandler) MarkDamaged(c *fiber.Ctx) error {
	in, err := parseChange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.stockUC.MarkDamaged(c.Context(), c.Params("id"), in.Quantity, in.Notes, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// Adjust godoc
// @Summary      Ajustar el stock a un nivel absoluto (conteo físico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockAdjustRequest  true  "Nivel objetivo y razón"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      409   {object}  dto.ErrorResponse  "El stock ya está en el nivel objetivo"
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	txn, err := h.stockUC.AdjustTo(c.Context(), c.Params("id"), in.TargetLevel, in.Reason, GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(txn))
}

// Transactions godoc
// @Summary      Consultar el libro de transacciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        kind        query  string  false  "Filtrar por tipo"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) Transactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		ProductID: c.Query("product_id"),
		Kind:      c.Query("kind"),
		Limit:     c.QueryInt("limit", 0),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		filter.To = &t
	}
	txns, err := h.queryUC.Transactions(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToTransactionResponses(txns))
}

// ProductTransactions godoc
// @Summary      Historial de transacciones de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/{id}/transactions [get]
func (h *InventoryHandler) ProductTransactions(c *fiber.Ctx) error {
	txns, err := h.queryUC.Transactions(repository.TransactionFilter{
		ProductID: c.Params("id"),
		Limit:     c.QueryInt("limit", 20),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToTransactionResponses(txns))
}

// LowStock godoc
// @Summary      Productos en o bajo su stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.queryUC.LowStockProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductResponses(products))
}

// OutOfStock godoc
// @Summary      Productos agotados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/out-of-stock [get]
func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	products, err := h.queryUC.OutOfStockProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductResponses(products))
}

// Overstocked godoc
// @Summary      Productos por encima de su stock máximo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/overstocked [get]
func (h *InventoryHandler) Overstocked(c *fiber.Ctx) error {
	products, err := h.queryUC.OverstockedProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductResponses(products))
}

// Value godoc
// @Summary      Valoración del inventario activo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockValueResponse
// @Router       /api/inventory/value [get]
func (h *InventoryHandler) Value(c *fiber.Ctx) error {
	value, err := h.queryUC.Value()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockValueResponse{
		CostValue:       value.CostValue,
		RetailValue:     value.RetailValue,
		PotentialProfit: value.PotentialProfit,
	})
}

// Summary godoc
// @Summary      Conteos de estado del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.queryUC.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockSummaryResponse{
		TotalProducts:    summary.TotalProducts,
		TotalUnits:       summary.TotalUnits,
		LowStockCount:    summary.LowStockCount,
		OutOfStockCount:  summary.OutOfStockCount,
		OverstockedCount: summary.OverstockedCount,
		Value: dto.StockValueResponse{
			CostValue:       summary.Value.CostValue,
			RetailValue:     summary.Value.RetailValue,
			PotentialProfit: summary.Value.PotentialProfit,
		},
	})
}
