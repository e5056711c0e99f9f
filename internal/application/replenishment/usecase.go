package replenishment

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/alerting"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// UseCase maneja el flujo de reabastecimiento: sugerencias, creación de
// órdenes de compra (manual y automática), transiciones de estado y
// recepción, que aplica las cantidades recibidas al libro de stock.
type UseCase struct {
	txRunner     inventory.TxRunner
	stockUC      *inventory.StockUseCase
	engine       *alerting.Engine
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	orderRepo    repository.RestockOrderRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de reabastecimiento.
func NewUseCase(
	txRunner inventory.TxRunner,
	stockUC *inventory.StockUseCase,
	engine *alerting.Engine,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	orderRepo repository.RestockOrderRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockUC:      stockUC,
		engine:       engine,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		log:          log,
	}
}

// generateOrderNumber genera un número de orden PO-YYYYMMDD-XXXXXX.
// El sufijo aleatorio lo hace libre de colisiones bajo creación concurrente;
// el tooling externo no debe asumir orden secuencial.
func generateOrderNumber() string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:])[:6])
	return "PO-" + time.Now().Format("20060102") + "-" + suffix
}

// OrderItemInput un par (producto, cantidad) para crear una orden.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput entrada para crear una orden de reabastecimiento.
type CreateOrderInput struct {
	SupplierID string
	Items      []OrderItemInput
	Notes      string
	Actor      string
}

// CreateOrder crea una orden Pending para un proveedor. Valida que cada
// producto pertenezca al proveedor (*domain.SupplierMismatchError si no),
// congela el costo unitario vigente en cada línea y calcula el total una
// sola vez; cambios de costo posteriores no afectan la orden.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.RestockOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	expected := now.AddDate(0, 0, supplier.LeadTimeDays)
	order := &entity.RestockOrder{
		ID:               uuid.New().String(),
		OrderNumber:      generateOrderNumber(),
		SupplierID:       supplier.ID,
		Status:           entity.OrderStatusPending,
		Notes:            in.Notes,
		OrderDate:        now,
		ExpectedDelivery: &expected,
		CreatedBy:        in.Actor,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.SupplierID == nil || *product.SupplierID != supplier.ID {
			return nil, &domain.SupplierMismatchError{
				ProductID:   product.ID,
				ProductName: product.Name,
				SupplierID:  supplier.ID,
			}
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		order.Items = append(order.Items, entity.RestockOrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ProductID:       product.ID,
			QuantityOrdered: item.Quantity,
			UnitCost:        product.Cost,
			TotalPrice:      product.Cost.Mul(qty),
		})
	}
	order.TotalAmount = order.CalculateTotal()

	// La orden y sus líneas se insertan en una sola transacción.
	err = uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.StockTransactionRepository,
		_ repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error {
		return orders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AutoCreateOrders agrupa los productos activos bajo mínimo por proveedor y
// crea una orden por grupo con la cantidad de reorden de cada producto.
// Los productos sin proveedor se excluyen en silencio: aparecen como acción
// manual requerida en Suggestions().
func (uc *UseCase) AutoCreateOrders(ctx context.Context, actor string) ([]*entity.RestockOrder, error) {
	low, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]OrderItemInput)
	supplierOrder := make([]string, 0)
	for _, p := range low {
		if p.SupplierID == nil {
			continue
		}
		if _, ok := groups[*p.SupplierID]; !ok {
			supplierOrder = append(supplierOrder, *p.SupplierID)
		}
		groups[*p.SupplierID] = append(groups[*p.SupplierID], OrderItemInput{
			ProductID: p.ID,
			Quantity:  p.ReorderQuantity,
		})
	}

	orders := make([]*entity.RestockOrder, 0, len(groups))
	for _, supplierID := range supplierOrder {
		order, err := uc.CreateOrder(ctx, CreateOrderInput{
			SupplierID: supplierID,
			Items:      groups[supplierID],
			Notes:      "Orden generada automáticamente por stock bajo",
			Actor:      actor,
		})
		if err != nil {
			uc.log.Error().Err(err).Str("supplier_id", supplierID).
				Msg("error creando orden automática")
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Confirm marca la orden como confirmada (enviada al proveedor).
func (uc *UseCase) Confirm(ctx context.Context, orderID, actor string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusConfirmed, actor)
}

// Ship marca la orden como despachada por el proveedor.
func (uc *UseCase) Ship(ctx context.Context, orderID, actor string) error {
	return uc.transition(ctx, orderID, entity.OrderStatusShipped, actor)
}

// transition aplica una transición simple de estado validando la máquina.
// La orden se relee con bloqueo de fila: dos transiciones concurrentes se
// serializan y la segunda ve el estado que dejó la primera.
func (uc *UseCase) transition(ctx context.Context, orderID, to, actor string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.StockTransactionRepository,
		_ repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error {
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransition(to) {
			return &domain.InvalidOrderStateError{
				OrderID:   order.ID,
				Current:   order.Status,
				Requested: to,
			}
		}
		order.Status = to
		order.UpdatedBy = actor
		order.UpdatedAt = time.Now()
		return orders.Update(order)
	})
}

// Receive recibe una orden (solo desde Confirmed o Shipped) y aplica cada
// línea al libro de stock vía el mutador, todo en una transacción: si la
// orden no es recibible no se toca ninguna línea; una vez iniciada, todas
// las líneas se procesan. overrides permite indicar por producto la cantidad
// realmente recibida (faltante total se expresa con 0, no omitiendo la línea).
func (uc *UseCase) Receive(ctx context.Context, orderID string, overrides map[string]int, actor string) ([]*entity.StockTransaction, error) {
	for _, qty := range overrides {
		if qty < 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var (
		txnList []*entity.StockTransaction
		pending []*alerting.Notification
	)
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		txns repository.StockTransactionRepository,
		alerts repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error {
		// Bloqueo de fila: una recepción concurrente de la misma orden
		// espera aquí y encuentra la orden ya Delivered.
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.IsReceivable() {
			return &domain.InvalidOrderStateError{
				OrderID:   order.ID,
				Current:   order.Status,
				Requested: entity.OrderStatusDelivered,
			}
		}

		now := time.Now()
		for i := range order.Items {
			item := &order.Items[i]
			received := item.QuantityOrdered
			if qty, ok := overrides[item.ProductID]; ok {
				received = qty
			}
			if err := orders.UpdateItemReceived(item.ID, received); err != nil {
				return err
			}
			if received == 0 {
				continue
			}
			product, err := products.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			// El valor de la entrada usa el costo congelado de la línea,
			// no el precio de venta vigente.
			txn, notif, err := uc.stockUC.ApplyChangeInTx(products, txns, alerts, product, inventory.ChangeInput{
				ProductID: product.ID,
				Delta:     received,
				Kind:      entity.TransactionRestock,
				Reference: order.OrderNumber,
				Notes:     "Recibido de la orden " + order.OrderNumber,
				Actor:     actor,
			}, item.UnitCost)
			if err != nil {
				return err
			}
			txnList = append(txnList, txn)
			if notif != nil {
				pending = append(pending, notif)
			}
		}

		order.Status = entity.OrderStatusDelivered
		order.ActualDelivery = &now
		order.UpdatedBy = actor
		order.UpdatedAt = now
		return orders.Update(order)
	})
	if err != nil {
		return nil, err
	}

	uc.engine.DispatchAll(pending)
	return txnList, nil
}

// Cancel cancela una orden (solo desde Pending o Confirmed) y anexa la razón
// a las notas. No revierte efectos de stock: la recepción es la que los aplica.
func (uc *UseCase) Cancel(ctx context.Context, orderID, reason, actor string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.StockTransactionRepository,
		_ repository.StockAlertRepository,
		orders repository.RestockOrderRepository,
	) error {
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransition(entity.OrderStatusCancelled) {
			return &domain.InvalidOrderStateError{
				OrderID:   order.ID,
				Current:   order.Status,
				Requested: entity.OrderStatusCancelled,
			}
		}
		order.Status = entity.OrderStatusCancelled
		if reason != "" {
			if order.Notes != "" {
				order.Notes += "\n"
			}
			order.Notes += "Cancelada: " + reason
		}
		order.UpdatedBy = actor
		order.UpdatedAt = time.Now()
		return orders.Update(order)
	})
}

// QuickRestock reabastece un producto sin orden de por medio (entrega
// directa). Si quantity es 0 usa la cantidad de reorden configurada.
func (uc *UseCase) QuickRestock(ctx context.Context, productID string, quantity int, actor string) (*entity.StockTransaction, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if quantity == 0 {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		quantity = product.ReorderQuantity
	}
	return uc.stockUC.ApplyChange(ctx, inventory.ChangeInput{
		ProductID: productID,
		Delta:     quantity,
		Kind:      entity.TransactionRestock,
		Notes:     "Reabastecimiento rápido",
		Actor:     actor,
	})
}

// QuickRestockAllLow reabastece directamente todos los productos bajo mínimo
// con su cantidad de reorden. Errores por producto se registran y se continúa.
func (uc *UseCase) QuickRestockAllLow(ctx context.Context, actor string) ([]*entity.StockTransaction, error) {
	low, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	txns := make([]*entity.StockTransaction, 0, len(low))
	for _, p := range low {
		txn, err := uc.QuickRestock(ctx, p.ID, p.ReorderQuantity, actor)
		if err != nil {
			uc.log.Error().Err(err).Str("product_id", p.ID).
				Msg("error en reabastecimiento rápido")
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// GetOrder devuelve una orden con sus líneas.
func (uc *UseCase) GetOrder(orderID string) (*entity.RestockOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// GetOrderByNumber devuelve una orden por su número PO.
func (uc *UseCase) GetOrderByNumber(number string) (*entity.RestockOrder, error) {
	order, err := uc.orderRepo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// Orders lista órdenes con filtros opcionales de estado y proveedor.
func (uc *UseCase) Orders(filter repository.OrderFilter) ([]*entity.RestockOrder, error) {
	return uc.orderRepo.List(filter)
}

// OrderSummary resumen de órdenes por estado con valores pendiente/entregado.
type OrderSummary struct {
	TotalOrders         int
	Pending             int
	Confirmed           int
	Shipped             int
	Delivered           int
	Cancelled           int
	TotalValuePending   decimal.Decimal
	TotalValueDelivered decimal.Decimal
}

// Summary devuelve el resumen de todas las órdenes.
func (uc *UseCase) Summary() (*OrderSummary, error) {
	all, err := uc.orderRepo.ListAll()
	if err != nil {
		return nil, err
	}
	summary := &OrderSummary{
		TotalOrders:         len(all),
		TotalValuePending:   decimal.Zero,
		TotalValueDelivered: decimal.Zero,
	}
	for _, order := range all {
		switch order.Status {
		case entity.OrderStatusPending:
			summary.Pending++
			summary.TotalValuePending = summary.TotalValuePending.Add(order.TotalAmount)
		case entity.OrderStatusConfirmed:
			summary.Confirmed++
			summary.TotalValuePending = summary.TotalValuePending.Add(order.TotalAmount)
		case entity.OrderStatusShipped:
			summary.Shipped++
		case entity.OrderStatusDelivered:
			summary.Delivered++
			summary.TotalValueDelivered = summary.TotalValueDelivered.Add(order.TotalAmount)
		case entity.OrderStatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

// SupplierHistory estadísticas de órdenes de un proveedor.
type SupplierHistory struct {
	TotalOrders         int
	DeliveredOrders     int
	CancelledOrders     int
	TotalValue          decimal.Decimal
	AverageDeliveryDays float64
}

// HistoryBySupplier devuelve el historial de órdenes de un proveedor.
func (uc *UseCase) HistoryBySupplier(supplierID string) (*SupplierHistory, error) {
	orders, err := uc.orderRepo.List(repository.OrderFilter{SupplierID: supplierID})
	if err != nil {
		return nil, err
	}
	history := &SupplierHistory{TotalOrders: len(orders), TotalValue: decimal.Zero}
	totalDays := 0.0
	for _, order := range orders {
		switch order.Status {
		case entity.OrderStatusDelivered:
			history.DeliveredOrders++
			history.TotalValue = history.TotalValue.Add(order.TotalAmount)
			if order.ActualDelivery != nil {
				totalDays += order.ActualDelivery.Sub(order.OrderDate).Hours() / 24
			}
		case entity.OrderStatusCancelled:
			history.CancelledOrders++
		}
	}
	if history.DeliveredOrders > 0 {
		history.AverageDeliveryDays = totalDays / float64(history.DeliveredOrders)
	}
	return history, nil
}
