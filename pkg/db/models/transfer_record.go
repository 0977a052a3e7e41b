package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferRecord is an append-only audit row written whenever inventory moves
// between rooms.
type TransferRecord struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index"`
	FromRoomID uuid.UUID       `gorm:"column:from_room_id;type:uuid;not null"`
	ToRoomID   uuid.UUID       `gorm:"column:to_room_id;type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
