package warehouses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
)

// Repository handles warehouse persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to warehouse operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new warehouse using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, warehouse *models.Warehouse) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if warehouse == nil {
		return fmt.Errorf("warehouse is required")
	}
	return tx.Create(warehouse).Error
}

// FindByID loads a warehouse by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// FindByIDForUpdate loads a warehouse under a row lock inside the
// transaction. Capacity admission serializes on this lock.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Warehouse, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var warehouse models.Warehouse
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// List returns warehouses ordered newest first, optionally scoped to one
// customer, using cursor pagination.
func (r *Repository) List(ctx context.Context, customerID *uuid.UUID, params pagination.Params) ([]models.Warehouse, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var warehouses []models.Warehouse
	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Update saves the provided warehouse.
func (r *Repository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse == nil {
		return fmt.Errorf("warehouse is required")
	}
	return r.db.WithContext(ctx).Save(warehouse).Error
}

// SetTotalCapacityWithTx overwrites the cached capacity aggregate inside the
// transaction.
func (r *Repository) SetTotalCapacityWithTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Warehouse{}).
		Where("id = ?", id).
		Update("total_capacity", total).Error
}

// DeleteWithTx removes the warehouse row inside the transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	result := tx.Delete(&models.Warehouse{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRoomsWithTx removes every room of the warehouse inside the transaction.
func (r *Repository) DeleteRoomsWithTx(tx *gorm.DB, warehouseID uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Room{}, "warehouse_id = ?", warehouseID).Error
}

// CountInventory returns how many inventory items the warehouse holds across
// all of its rooms.
func (r *Repository) CountInventory(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("warehouse_id = ?", warehouseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumInventoryWeight returns the total stored weight across the warehouse.
func (r *Repository) SumInventoryWeight(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("SUM(quantity * unit_weight)").
		Where("warehouse_id = ?", warehouseID).
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal.Round(2), nil
}

// SumActiveRoomCapacity sums the declared capacity of rooms currently in
// service. This is the denominator of the utilization report.
func (r *Repository) SumActiveRoomCapacity(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Select("SUM(capacity)").
		Where("warehouse_id = ? AND status = ?", warehouseID, enums.RoomStatusActive).
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal.Round(2), nil
}
