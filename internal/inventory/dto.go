package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
)

// InventoryDTO exposes inventory data in API responses.
type InventoryDTO struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	RoomID      uuid.UUID       `json:"room_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitWeight  decimal.Decimal `json:"unit_weight"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AddInventoryInput holds creation-time data for a new inventory item.
type AddInventoryInput struct {
	RoomID      uuid.UUID
	SKU         string
	Name        string
	Description *string
	Quantity    decimal.Decimal
	Unit        string
	UnitWeight  decimal.Decimal
}

// UpdateInventoryInput captures the item fields open to mutation. Quantity
// increases re-run the capacity admission checks.
type UpdateInventoryInput struct {
	Name        *string
	Description *string
	Quantity    *decimal.Decimal
}

// TransferRecordDTO is one row of an item's transfer history.
type TransferRecordDTO struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	FromRoomID uuid.UUID       `json:"from_room_id"`
	ToRoomID   uuid.UUID       `json:"to_room_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SearchFilter narrows inventory searches. Both fields are optional.
type SearchFilter struct {
	SKU         *string
	WarehouseID *uuid.UUID
}

// FromModel maps the persisted item into a DTO.
func FromModel(m *models.InventoryItem) *InventoryDTO {
	if m == nil {
		return nil
	}
	return &InventoryDTO{
		ID:          m.ID,
		WarehouseID: m.WarehouseID,
		RoomID:      m.RoomID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		UnitWeight:  m.UnitWeight,
		TotalWeight: m.TotalWeight(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func transferFromModel(m *models.TransferRecord) TransferRecordDTO {
	return TransferRecordDTO{
		ID:         m.ID,
		ItemID:     m.ItemID,
		FromRoomID: m.FromRoomID,
		ToRoomID:   m.ToRoomID,
		Quantity:   m.Quantity,
		CreatedAt:  m.CreatedAt,
	}
}
