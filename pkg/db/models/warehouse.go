package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse groups rooms under a customer account. TotalCapacity caches the
// aggregate volume of rooms currently in service and is recomputed whenever
// room geometry or status changes.
type Warehouse struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	Address       string          `gorm:"column:address;not null"`
	TotalCapacity decimal.Decimal `gorm:"column:total_capacity;type:numeric(12,2);not null;default:0"`
	Rooms         []Room          `gorm:"foreignKey:WarehouseID;constraint:OnDelete:RESTRICT"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
