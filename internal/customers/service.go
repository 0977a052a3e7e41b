package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stowage-backend/pkg/db"
	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
)

type customerRepository interface {
	Create(ctx context.Context, dto CreateCustomerDTO) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, params pagination.Params) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountWarehouses(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// Service exposes customer operations.
type Service interface {
	Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	GetByEmail(ctx context.Context, email string) (*CustomerDTO, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	Verify(ctx context.Context, id uuid.UUID, newStatus enums.VerificationStatus) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo customerRepository
}

// NewService builds a customer service with the provided repository.
func NewService(repo customerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	customer, err := s.repo.Create(ctx, input)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_customers_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return FromModel(customer), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(customer), nil
}

// GetByEmail looks a customer up by the address they registered with. The
// lookup is normalized the same way Create normalizes before storing.
func (s *service) GetByEmail(ctx context.Context, email string) (*CustomerDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	customer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return FromModel(customer), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return pagination.NewPage(dtos, params.Limit, func(dto CustomerDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: dto.CreatedAt, ID: dto.ID}
	}), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = cloneStringPtr(input.Phone)
	}
	if input.Address != nil {
		customer.Address = cloneStringPtr(input.Address)
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return FromModel(customer), nil
}

func (s *service) Verify(ctx context.Context, id uuid.UUID, newStatus enums.VerificationStatus) (*CustomerDTO, error) {
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid verification status")
	}

	customer, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if !customer.VerificationStatus.CanTransitionTo(newStatus) {
		message := fmt.Sprintf("Invalid status transition from %s to %s", customer.VerificationStatus, newStatus)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, message)
	}

	customer.VerificationStatus = newStatus
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer status")
	}
	return FromModel(customer), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCustomer(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountWarehouses(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer warehouses")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Cannot delete customer with existing warehouses")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
