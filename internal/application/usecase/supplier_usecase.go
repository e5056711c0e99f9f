package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor. El nombre es único.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.LeadTimeDays < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		ZipCode:       in.ZipCode,
		Country:       in.Country,
		LeadTimeDays:  in.LeadTimeDays,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return dto.ToSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToSupplierResponse(supplier), nil
}

// Update actualiza los campos presentes.
func (uc *SupplierUseCase) Update(id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil && *in.Name != supplier.Name {
		existing, err := uc.repo.GetByName(*in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		supplier.Name = *in.Name
	}
	if in.ContactPerson != nil {
		supplier.ContactPerson = *in.ContactPerson
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Address != nil {
		supplier.Address = *in.Address
	}
	if in.City != nil {
		supplier.City = *in.City
	}
	if in.State != nil {
		supplier.State = *in.State
	}
	if in.ZipCode != nil {
		supplier.ZipCode = *in.ZipCode
	}
	if in.Country != nil {
		supplier.Country = *in.Country
	}
	if in.LeadTimeDays != nil {
		if *in.LeadTimeDays < 0 {
			return nil, domain.ErrInvalidInput
		}
		supplier.LeadTimeDays = *in.LeadTimeDays
	}
	supplier.UpdatedAt = time.Now()

	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return dto.ToSupplierResponse(supplier), nil
}

// Deactivate desactiva un proveedor (soft delete). Sus productos quedan
// sin proveedor efectivo para auto-reabastecimiento.
func (uc *SupplierUseCase) Deactivate(id string) error {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// List lista proveedores.
func (uc *SupplierUseCase) List(activeOnly bool) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.repo.List(activeOnly)
	if err != nil {
		return nil, err
	}
	return dto.ToSupplierResponses(suppliers), nil
}
