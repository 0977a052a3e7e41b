package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
)

// Repository handles inventory persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to inventory operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new inventory row using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, item *models.InventoryItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return tx.Create(item).Error
}

// FindByID loads an inventory item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads an item under a row lock inside the transaction.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.InventoryItem, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var item models.InventoryItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWithTx persists the item using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, item *models.InventoryItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return tx.Save(item).Error
}

// Delete removes the inventory row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search returns inventory matching the filter, newest first, using cursor
// pagination.
func (r *Repository) Search(ctx context.Context, filter SearchFilter, params pagination.Params) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filter.SKU != nil {
		query = query.Where("sku = ?", *filter.SKU)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SumWeightByWarehouseWithTx computes the stored weight across a warehouse
// inside the transaction.
func (r *Repository) SumWeightByWarehouseWithTx(tx *gorm.DB, warehouseID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, gorm.ErrInvalidTransaction
	}
	var raw decimal.NullDecimal
	if err := tx.Model(&models.InventoryItem{}).
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

// AppendTransferWithTx writes one transfer-history row inside the transaction.
func (r *Repository) AppendTransferWithTx(tx *gorm.DB, record *models.TransferRecord) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if record == nil {
		return fmt.Errorf("record is required")
	}
	return tx.Create(record).Error
}

// ListTransfers returns the item's transfer history, oldest first.
func (r *Repository) ListTransfers(ctx context.Context, itemID uuid.UUID) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
