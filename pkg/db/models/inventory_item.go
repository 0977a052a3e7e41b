package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is stock held inside a room. Quantity is the occupied volume
// used for capacity accounting.
type InventoryItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID       `gorm:"column:warehouse_id;type:uuid;not null;index"`
	RoomID      uuid.UUID       `gorm:"column:room_id;type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	Unit        string          `gorm:"column:unit;not null"`
	UnitWeight  decimal.Decimal `gorm:"column:unit_weight;type:numeric(12,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalWeight derives the shipment weight for the stored quantity.
func (i InventoryItem) TotalWeight() decimal.Decimal {
	return i.Quantity.Mul(i.UnitWeight).Round(2)
}
