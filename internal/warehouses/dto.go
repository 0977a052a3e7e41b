package warehouses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/pkg/db/models"
)

// WarehouseDTO exposes warehouse data in API responses.
type WarehouseDTO struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateWarehouseDTO holds creation-time data for a new warehouse. When
// InitialRooms is non-empty the rooms are created in the same transaction and
// the declared TotalCapacity is replaced by the recomputed room aggregate.
type CreateWarehouseDTO struct {
	CustomerID    uuid.UUID
	Name          string
	Address       string
	TotalCapacity decimal.Decimal
	InitialRooms  []rooms.CreateRoomInput
}

// UpdateWarehouseInput captures the warehouse fields open to mutation.
// TotalCapacity acts as a manual override of the room-derived aggregate.
type UpdateWarehouseInput struct {
	Name          *string
	Address       *string
	TotalCapacity *decimal.Decimal
}

// UtilizationDTO is the live capacity report for a warehouse.
type UtilizationDTO struct {
	WarehouseID           uuid.UUID       `json:"warehouse_id"`
	TotalCapacity         decimal.Decimal `json:"total_capacity"`
	UsedCapacity          decimal.Decimal `json:"used_capacity"`
	UtilizationPercentage decimal.Decimal `json:"utilization_percentage"`
	AvailableCapacity     decimal.Decimal `json:"available_capacity"`
}

// FromModel maps the persisted warehouse into a DTO.
func FromModel(m *models.Warehouse) *WarehouseDTO {
	if m == nil {
		return nil
	}
	return &WarehouseDTO{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		Name:          m.Name,
		Address:       m.Address,
		TotalCapacity: m.TotalCapacity,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateWarehouseDTO) ToModel() *models.Warehouse {
	return &models.Warehouse{
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Address:       c.Address,
		TotalCapacity: c.TotalCapacity,
	}
}
