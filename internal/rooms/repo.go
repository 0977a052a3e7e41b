package rooms

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
)

// Repository handles room persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to room operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new room using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, room *models.Room) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if room == nil {
		return fmt.Errorf("room is required")
	}
	return tx.Create(room).Error
}

// FindByID loads a room by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate loads a room under a row lock inside the transaction.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByWarehouse returns all rooms belonging to the warehouse.
func (r *Repository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("created_at ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// FindByWarehouseWithTx returns all rooms of the warehouse inside the transaction.
func (r *Repository) FindByWarehouseWithTx(tx *gorm.DB, warehouseID uuid.UUID) ([]models.Room, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var rooms []models.Room
	if err := tx.Where("warehouse_id = ?", warehouseID).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateWithTx persists the room using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, room *models.Room) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if room == nil {
		return fmt.Errorf("room is required")
	}
	return tx.Save(room).Error
}

// DeleteWithTx removes the room row inside the transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	result := tx.Delete(&models.Room{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumInventoryWeight returns the total weight of inventory stored in the room.
func (r *Repository) SumInventoryWeight(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error) {
	return sumInventoryWeight(r.db.WithContext(ctx), roomID)
}

// SumInventoryWeightWithTx computes the used weight inside the transaction so
// the figure is consistent with any row locks already held.
func (r *Repository) SumInventoryWeightWithTx(tx *gorm.DB, roomID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, gorm.ErrInvalidTransaction
	}
	return sumInventoryWeight(tx, roomID)
}

func sumInventoryWeight(db *gorm.DB, roomID uuid.UUID) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := db.Model(&models.InventoryItem{}).
		Select("SUM(quantity * unit_weight)").
		Where("room_id = ?", roomID).
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal.Round(2), nil
}
