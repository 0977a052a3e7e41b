package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/pkg/enums"
)

// Room is a storage unit inside a warehouse. Capacity is the declared
// admissible volume; Length/Width/Height describe the physical geometry.
type Room struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID        `gorm:"column:warehouse_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	Capacity    decimal.Decimal  `gorm:"column:capacity;type:numeric(12,2);not null"`
	Length      decimal.Decimal  `gorm:"column:length;type:numeric(12,2);not null"`
	Width       decimal.Decimal  `gorm:"column:width;type:numeric(12,2);not null"`
	Height      decimal.Decimal  `gorm:"column:height;type:numeric(12,2);not null"`
	Temperature decimal.Decimal  `gorm:"column:temperature;type:numeric(12,2);not null"`
	Humidity    decimal.Decimal  `gorm:"column:humidity;type:numeric(12,2);not null"`
	Status      enums.RoomStatus `gorm:"column:status;not null;default:active"`
	Items       []InventoryItem  `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Volume returns the geometric volume of the room rounded to two places.
func (r Room) Volume() decimal.Decimal {
	return r.Length.Mul(r.Width).Mul(r.Height).Round(2)
}
