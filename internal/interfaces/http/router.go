package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/replenishment"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC       *usecase.ProductUseCase
	SupplierUC      *usecase.SupplierUseCase
	StockUC         *inventory.StockUseCase
	QueryUC         *inventory.QueryUseCase
	AlertEngine     *alerting.Engine
	ReplenishmentUC *replenishment.UseCase
	AuthUC          *auth.UseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole("admin"), productHandler.Deactivate)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole("admin"), supplierHandler.Deactivate)
	suppliers.Get("/:id/products", productHandler.ListBySupplier)

	// Inventory: mutaciones de stock y libro de transacciones (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.QueryUC)
	invGroup.Get("/transactions", inventoryHandler.Transactions)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/out-of-stock", inventoryHandler.OutOfStock)
	invGroup.Get("/overstocked", inventoryHandler.Overstocked)
	invGroup.Get("/value", inventoryHandler.Value)
	invGroup.Get("/summary", inventoryHandler.Summary)
	invGroup.Get("/:id/transactions", inventoryHandler.ProductTransactions)
	invGroup.Post("/:id/sell", inventoryHandler.Sell)
	invGroup.Post("/:id/restock", inventoryHandler.Restock)
	invGroup.Post("/:id/return", inventoryHandler.Return)
	invGroup.Post("/:id/expired", inventoryHandler.MarkExpired)
	invGroup.Post("/:id/damaged", inventoryHandler.MarkDamaged)
	invGroup.Post("/:id/adjust", inventoryHandler.Adjust)

	// Alerts (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertEngine)
	alerts.Get("/", alertHandler.List)
	alerts.Get("/summary", alertHandler.Summary)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Orders: flujo de reabastecimiento (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.ReplenishmentUC)
	orders.Get("/suggestions", orderHandler.Suggestions)
	orders.Get("/pending", orderHandler.Pending)
	orders.Get("/summary", orderHandler.Summary)
	orders.Get("/number/:number", orderHandler.GetByNumber)
	orders.Post("/auto", orderHandler.AutoCreate)
	orders.Post("/quick-restock", orderHandler.QuickRestockAll)
	orders.Post("/quick-restock/:id", orderHandler.QuickRestock)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/confirm", orderHandler.Confirm)
	orders.Post("/:id/ship", orderHandler.Ship)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Historial de órdenes por proveedor
	suppliers.Get("/:id/orders/history", orderHandler.SupplierHistory)
}
