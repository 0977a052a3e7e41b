package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
)

// CustomerDTO exposes customer data in API responses.
type CustomerDTO struct {
	ID                 uuid.UUID                `json:"id"`
	Name               string                   `json:"name"`
	Email              string                   `json:"email"`
	Phone              *string                  `json:"phone,omitempty"`
	Address            *string                  `json:"address,omitempty"`
	VerificationStatus enums.VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// CreateCustomerDTO holds creation-time data for a new customer.
type CreateCustomerDTO struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
}

// UpdateCustomerInput captures the customer fields open to mutation.
// Verification status changes go through Verify, never through here.
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// FromModel maps the persisted customer into a DTO.
func FromModel(m *models.Customer) *CustomerDTO {
	if m == nil {
		return nil
	}
	return &CustomerDTO{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		VerificationStatus: m.VerificationStatus,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO. New customers always
// enter in PENDING.
func (c CreateCustomerDTO) ToModel() *models.Customer {
	return &models.Customer{
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		VerificationStatus: enums.VerificationStatusPending,
	}
}
