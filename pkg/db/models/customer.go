package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stowage-backend/pkg/enums"
)

// Customer represents an account that owns warehouses.
type Customer struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string                   `gorm:"column:name;not null"`
	Email              string                   `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone              *string                  `gorm:"column:phone"`
	Address            *string                  `gorm:"column:address"`
	VerificationStatus enums.VerificationStatus `gorm:"column:verification_status;not null;default:PENDING"`
	Warehouses         []Warehouse              `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
