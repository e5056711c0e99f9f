package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock actual nunca se
// edita por esta vía: nace con el stock inicial y solo cambia vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	supplierRepo repository.SupplierRepository
	stockUC      *inventory.StockUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, supplierRepo repository.SupplierRepository, stockUC *inventory.StockUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, supplierRepo: supplierRepo, stockUC: stockUC}
}

// Create crea un producto. Si InitialStock > 0 se registra como una entrada
// en el libro de movimientos; en cualquier caso el producto queda evaluado
// por el motor de alertas (un producto creado bajo mínimo alerta de inmediato).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, actor string) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.InitialStock < 0 || in.MinStockLevel < 0 || in.MaxStockLevel < 0 || in.ReorderQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.SupplierID != nil {
		supplier, err := uc.supplierRepo.GetByID(*in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.Category == "" {
		in.Category = entity.CategoryOther
	}
	if in.Unit == "" {
		in.Unit = "unidad"
	}

	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Unit:            in.Unit,
		Price:           in.Price,
		Cost:            in.Cost,
		CurrentStock:    0,
		MinStockLevel:   in.MinStockLevel,
		MaxStockLevel:   in.MaxStockLevel,
		ReorderQuantity: in.ReorderQuantity,
		Barcode:         in.Barcode,
		Brand:           in.Brand,
		Location:        in.Location,
		SupplierID:      in.SupplierID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock > 0 {
		txn, err := uc.stockUC.ApplyChange(ctx, inventory.ChangeInput{
			ProductID: product.ID,
			Delta:     in.InitialStock,
			Kind:      entity.TransactionRestock,
			Notes:     "Stock inicial",
			Actor:     actor,
		})
		if err != nil {
			return nil, err
		}
		product.CurrentStock = txn.NewStock
	} else if err := uc.stockUC.EvaluateProduct(ctx, product.ID); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// GetBySKU obtiene un producto por SKU.
func (uc *ProductUseCase) GetBySKU(sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// Update actualiza los campos presentes. CurrentStock no es actualizable.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, actor string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	minChanged := false
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		minChanged = product.MinStockLevel != *in.MinStockLevel
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		if *in.MaxStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MaxStockLevel = *in.MaxStockLevel
	}
	if in.ReorderQuantity != nil {
		if *in.ReorderQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderQuantity = *in.ReorderQuantity
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.SupplierID != nil {
		supplier, err := uc.supplierRepo.GetByID(*in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
		product.SupplierID = in.SupplierID
	}
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	// Un nuevo mínimo puede dejar el producto bajo umbral (o sacarlo de él).
	if minChanged {
		if err := uc.stockUC.EvaluateProduct(ctx, product.ID); err != nil {
			return nil, err
		}
	}
	return dto.ToProductResponse(product), nil
}

// Deactivate desactiva un producto (soft delete). El historial de movimientos
// se conserva.
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(activeOnly bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(activeOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.ToProductResponses(products),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Search busca productos por nombre, SKU, código de barras o marca.
func (uc *ProductUseCase) Search(term string) ([]dto.ProductResponse, error) {
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.Search(term)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(products), nil
}

// ListBySupplier lista los productos activos de un proveedor.
func (uc *ProductUseCase) ListBySupplier(supplierID string) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListBySupplier(supplierID, true)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(products), nil
}
