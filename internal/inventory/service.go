package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stowage-backend/internal/capacity"
	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
	"github.com/angelmondragon/stowage-backend/pkg/validation"
)

type inventoryRepository interface {
	CreateWithTx(tx *gorm.DB, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.InventoryItem, error)
	UpdateWithTx(tx *gorm.DB, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter SearchFilter, params pagination.Params) ([]models.InventoryItem, error)
	SumWeightByWarehouseWithTx(tx *gorm.DB, warehouseID uuid.UUID) (decimal.Decimal, error)
	AppendTransferWithTx(tx *gorm.DB, record *models.TransferRecord) error
	ListTransfers(ctx context.Context, itemID uuid.UUID) ([]models.TransferRecord, error)
}

// roomLocker serializes capacity checks on a room row for the duration of a
// transaction.
type roomLocker interface {
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Room, error)
	SumInventoryWeightWithTx(tx *gorm.DB, roomID uuid.UUID) (decimal.Decimal, error)
}

// warehouseLocker reads the warehouse aggregate, optionally under a row lock
// so concurrent admissions into different rooms of one warehouse serialize.
type warehouseLocker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Warehouse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type utilizationInvalidator interface {
	Del(ctx context.Context, keys ...string) error
	UtilizationKey(warehouseID string) string
}

// Service exposes inventory operations.
type Service interface {
	Add(ctx context.Context, warehouseID uuid.UUID, input AddInventoryInput) (*InventoryDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*InventoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Transfer(ctx context.Context, itemID, targetRoomID uuid.UUID, quantity decimal.Decimal) (*InventoryDTO, error)
	History(ctx context.Context, itemID uuid.UUID) ([]TransferRecordDTO, error)
	Search(ctx context.Context, filter SearchFilter, params pagination.Params) (pagination.Page[InventoryDTO], error)
}

type service struct {
	repo       inventoryRepository
	rooms      roomLocker
	warehouses warehouseLocker
	tx         txRunner
	cache      utilizationInvalidator
}

// NewService builds an inventory service with the provided dependencies. The
// cache is optional; when nil, utilization reports rely on their TTL.
func NewService(repo inventoryRepository, rooms roomLocker, warehouses warehouseLocker, tx txRunner, cache utilizationInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if rooms == nil {
		return nil, fmt.Errorf("room repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, rooms: rooms, warehouses: warehouses, tx: tx, cache: cache}, nil
}

func (s *service) Add(ctx context.Context, warehouseID uuid.UUID, input AddInventoryInput) (*InventoryDTO, error) {
	input.SKU = strings.TrimSpace(input.SKU)
	input.Name = strings.TrimSpace(input.Name)
	input.Unit = strings.TrimSpace(input.Unit)
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}

	quantity, err := validation.PositiveDecimal(input.Quantity, "quantity")
	if err != nil {
		return nil, err
	}
	unitWeight, err := validation.PositiveDecimal(input.UnitWeight, "unit_weight")
	if err != nil {
		return nil, err
	}
	totalWeight := quantity.Mul(unitWeight).Round(2)

	if _, err := s.loadWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		WarehouseID: warehouseID,
		RoomID:      input.RoomID,
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Quantity:    quantity,
		Unit:        input.Unit,
		UnitWeight:  unitWeight,
	}

	// Admission checks run under row locks, room first and then warehouse,
	// so two concurrent adds cannot both pass against a stale usage figure.
	// Adds into different rooms of one warehouse serialize on the warehouse
	// row.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		room, err := s.lockRoom(tx, input.RoomID)
		if err != nil {
			return err
		}
		if room.WarehouseID != warehouseID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found in warehouse")
		}

		roomUsed, err := s.rooms.SumInventoryWeightWithTx(tx, room.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum room inventory")
		}
		if err := capacity.CheckRoomAdmission(room.Capacity, roomUsed, totalWeight); err != nil {
			return err
		}

		warehouse, err := s.lockWarehouse(tx, warehouseID)
		if err != nil {
			return err
		}
		warehouseUsed, err := s.repo.SumWeightByWarehouseWithTx(tx, warehouseID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum warehouse inventory")
		}
		if err := capacity.CheckWarehouseAdmission(warehouse.TotalCapacity, warehouseUsed, totalWeight); err != nil {
			return err
		}

		if err := s.repo.CreateWithTx(tx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, warehouseID)

	return FromModel(item), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*InventoryDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		item.Name = name
	}
	if input.Description != nil {
		description := *input.Description
		item.Description = &description
	}

	if input.Quantity == nil {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.UpdateWithTx(tx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return FromModel(item), nil
	}

	newQuantity, err := validation.PositiveDecimal(*input.Quantity, "quantity")
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		room, err := s.lockRoom(tx, item.RoomID)
		if err != nil {
			return err
		}

		// only the weight delta is newly admitted
		delta := newQuantity.Sub(item.Quantity).Mul(item.UnitWeight).Round(2)
		if delta.IsPositive() {
			roomUsed, err := s.rooms.SumInventoryWeightWithTx(tx, room.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum room inventory")
			}
			if err := capacity.CheckRoomAdmission(room.Capacity, roomUsed, delta); err != nil {
				return err
			}
			warehouse, err := s.lockWarehouse(tx, item.WarehouseID)
			if err != nil {
				return err
			}
			warehouseUsed, err := s.repo.SumWeightByWarehouseWithTx(tx, item.WarehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum warehouse inventory")
			}
			if err := capacity.CheckWarehouseAdmission(warehouse.TotalCapacity, warehouseUsed, delta); err != nil {
				return err
			}
		}

		item.Quantity = newQuantity
		if err := s.repo.UpdateWithTx(tx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, item.WarehouseID)

	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	s.invalidateUtilization(ctx, item.WarehouseID)
	return nil
}

func (s *service) Transfer(ctx context.Context, itemID, targetRoomID uuid.UUID, quantity decimal.Decimal) (*InventoryDTO, error) {
	quantity, err := validation.PositiveDecimal(quantity, "quantity")
	if err != nil {
		return nil, err
	}

	var moved *models.InventoryItem
	var sourceWarehouseID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		item, err := s.repo.FindByIDForUpdate(tx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}

		if quantity.GreaterThan(item.Quantity) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Insufficient quantity")
		}
		if targetRoomID == item.RoomID {
			return pkgerrors.New(pkgerrors.CodeValidation, "target room must differ from current room")
		}

		target, err := s.lockRoom(tx, targetRoomID)
		if err != nil {
			return err
		}

		// the whole item is reassigned; the requested quantity is what
		// the history row records
		arriving := item.TotalWeight()
		targetUsed, err := s.rooms.SumInventoryWeightWithTx(tx, target.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum room inventory")
		}
		if err := capacity.CheckRoomAdmission(target.Capacity, targetUsed, arriving); err != nil {
			return err
		}

		if target.WarehouseID != item.WarehouseID {
			warehouse, err := s.lockWarehouse(tx, target.WarehouseID)
			if err != nil {
				return err
			}
			warehouseUsed, err := s.repo.SumWeightByWarehouseWithTx(tx, target.WarehouseID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum warehouse inventory")
			}
			if err := capacity.CheckWarehouseAdmission(warehouse.TotalCapacity, warehouseUsed, arriving); err != nil {
				return err
			}
		}

		record := &models.TransferRecord{
			ItemID:     item.ID,
			FromRoomID: item.RoomID,
			ToRoomID:   target.ID,
			Quantity:   quantity,
		}

		sourceWarehouseID = item.WarehouseID
		item.RoomID = target.ID
		item.WarehouseID = target.WarehouseID
		if err := s.repo.UpdateWithTx(tx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
		}
		if err := s.repo.AppendTransferWithTx(tx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append transfer record")
		}
		moved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, sourceWarehouseID)
	if moved.WarehouseID != sourceWarehouseID {
		s.invalidateUtilization(ctx, moved.WarehouseID)
	}

	return FromModel(moved), nil
}

func (s *service) History(ctx context.Context, itemID uuid.UUID) ([]TransferRecordDTO, error) {
	if _, err := s.loadItem(ctx, itemID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListTransfers(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transfer history")
	}

	dtos := make([]TransferRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, transferFromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Search(ctx context.Context, filter SearchFilter, params pagination.Params) (pagination.Page[InventoryDTO], error) {
	if filter.SKU != nil {
		sku := strings.TrimSpace(*filter.SKU)
		if sku == "" {
			filter.SKU = nil
		} else {
			filter.SKU = &sku
		}
	}

	rows, err := s.repo.Search(ctx, filter, params)
	if err != nil {
		return pagination.Page[InventoryDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search inventory")
	}

	dtos := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return pagination.NewPage(dtos, params.Limit, func(dto InventoryDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: dto.CreatedAt, ID: dto.ID}
	}), nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) loadWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouse, nil
}

func (s *service) lockWarehouse(tx *gorm.DB, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.warehouses.FindByIDForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouse, nil
}

// invalidateUtilization drops the cached utilization report after a mutation
// commits. Best effort: a stale entry still expires with its TTL.
func (s *service) invalidateUtilization(ctx context.Context, warehouseID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, s.cache.UtilizationKey(warehouseID.String()))
}

func (s *service) lockRoom(tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.FindByIDForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	return room, nil
}
