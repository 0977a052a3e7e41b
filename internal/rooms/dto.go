package rooms

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/internal/capacity"
	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
)

// RoomDTO exposes room data in API responses. Utilization and available
// capacity are derived from the room's current inventory, never stored.
type RoomDTO struct {
	ID                 uuid.UUID        `json:"id"`
	WarehouseID        uuid.UUID        `json:"warehouse_id"`
	Name               string           `json:"name"`
	Capacity           decimal.Decimal  `json:"capacity"`
	Length             decimal.Decimal  `json:"length"`
	Width              decimal.Decimal  `json:"width"`
	Height             decimal.Decimal  `json:"height"`
	Volume             decimal.Decimal  `json:"volume"`
	Temperature        decimal.Decimal  `json:"temperature"`
	Humidity           decimal.Decimal  `json:"humidity"`
	Status             enums.RoomStatus `json:"status"`
	CurrentUtilization decimal.Decimal  `json:"current_utilization"`
	AvailableCapacity  decimal.Decimal  `json:"available_capacity"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateRoomInput holds creation-time data for a new room.
type CreateRoomInput struct {
	Name        string
	Capacity    decimal.Decimal
	Length      decimal.Decimal
	Width       decimal.Decimal
	Height      decimal.Decimal
	Temperature decimal.Decimal
	Humidity    decimal.Decimal
}

// UpdateRoomInput captures the room fields open to mutation. Status changes
// go through UpdateStatus, never through here.
type UpdateRoomInput struct {
	Name        *string
	Capacity    *decimal.Decimal
	Length      *decimal.Decimal
	Width       *decimal.Decimal
	Height      *decimal.Decimal
	Temperature *decimal.Decimal
	Humidity    *decimal.Decimal
}

// TouchesDimensions reports whether the patch changes room geometry.
func (u UpdateRoomInput) TouchesDimensions() bool {
	return u.Length != nil || u.Width != nil || u.Height != nil
}

// AvailabilityDTO is the result of a fit check against the room's remaining
// capacity.
type AvailabilityDTO struct {
	RoomID            uuid.UUID       `json:"room_id"`
	RequiredVolume    decimal.Decimal `json:"required_volume"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	Available         bool            `json:"available"`
}

// ConditionsDTO is the environmental readout for a room.
type ConditionsDTO struct {
	RoomID      uuid.UUID        `json:"room_id"`
	Temperature decimal.Decimal  `json:"temperature"`
	Humidity    decimal.Decimal  `json:"humidity"`
	Status      enums.RoomStatus `json:"status"`
}

// FromModel maps the persisted room into a DTO, deriving utilization from the
// weight currently stored in the room.
func FromModel(m *models.Room, usedWeight decimal.Decimal) *RoomDTO {
	if m == nil {
		return nil
	}
	return &RoomDTO{
		ID:                 m.ID,
		WarehouseID:        m.WarehouseID,
		Name:               m.Name,
		Capacity:           m.Capacity,
		Length:             m.Length,
		Width:              m.Width,
		Height:             m.Height,
		Volume:             m.Volume(),
		Temperature:        m.Temperature,
		Humidity:           m.Humidity,
		Status:             m.Status,
		CurrentUtilization: capacity.UtilizationPercent(usedWeight, m.Capacity),
		AvailableCapacity:  capacity.Available(m.Capacity, usedWeight),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
