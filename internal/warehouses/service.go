package warehouses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stowage-backend/internal/capacity"
	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/pkg/config"
	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
	"github.com/angelmondragon/stowage-backend/pkg/redis"
	"github.com/angelmondragon/stowage-backend/pkg/validation"
)

type warehouseRepository interface {
	CreateWithTx(tx *gorm.DB, warehouse *models.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context, customerID *uuid.UUID, params pagination.Params) ([]models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
	DeleteRoomsWithTx(tx *gorm.DB, warehouseID uuid.UUID) error
	CountInventory(ctx context.Context, warehouseID uuid.UUID) (int64, error)
	SumInventoryWeight(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error)
	SumActiveRoomCapacity(ctx context.Context, warehouseID uuid.UUID) (decimal.Decimal, error)
}

type customerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type roomCreator interface {
	CreateWithTx(tx *gorm.DB, room *models.Room) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type utilizationCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	UtilizationKey(warehouseID string) string
}

// Service exposes warehouse operations.
type Service interface {
	Create(ctx context.Context, input CreateWarehouseDTO) (*WarehouseDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error)
	List(ctx context.Context, customerID *uuid.UUID, params pagination.Params) (pagination.Page[WarehouseDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Utilization(ctx context.Context, id uuid.UUID) (*UtilizationDTO, error)
}

type service struct {
	repo      warehouseRepository
	customers customerRepository
	roomRepo  roomCreator
	tx        txRunner
	cache     utilizationCache
	cacheCfg  config.CacheConfig
	logg      *logger.Logger
}

// NewService builds a warehouse service. The cache is optional; when nil the
// utilization report is always computed live.
func NewService(repo warehouseRepository, customers customerRepository, roomRepo roomCreator, tx txRunner, cache utilizationCache, cacheCfg config.CacheConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if roomRepo == nil {
		return nil, fmt.Errorf("room repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		customers: customers,
		roomRepo:  roomRepo,
		tx:        tx,
		cache:     cache,
		cacheCfg:  cacheCfg,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateWarehouseDTO) (*WarehouseDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	// With initial rooms the aggregate is derived from their geometry;
	// otherwise the declared figure must stand on its own.
	initialRooms := make([]*models.Room, 0, len(input.InitialRooms))
	if len(input.InitialRooms) > 0 {
		for _, roomInput := range input.InitialRooms {
			room, err := rooms.BuildRoom(uuid.Nil, roomInput)
			if err != nil {
				return nil, err
			}
			initialRooms = append(initialRooms, room)
		}
		input.TotalCapacity = capacity.WarehouseCapacity(deref(initialRooms))
	} else {
		total, err := validation.PositiveDecimal(input.TotalCapacity, "total_capacity")
		if err != nil {
			return nil, err
		}
		input.TotalCapacity = total
	}

	warehouse := input.ToModel()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, warehouse); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warehouse")
		}
		for _, room := range initialRooms {
			room.WarehouseID = warehouse.ID
			if err := s.roomRepo.CreateWithTx(tx, room); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create initial room")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(warehouse), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	warehouse, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(warehouse), nil
}

func (s *service) List(ctx context.Context, customerID *uuid.UUID, params pagination.Params) (pagination.Page[WarehouseDTO], error) {
	rows, err := s.repo.List(ctx, customerID, params)
	if err != nil {
		return pagination.Page[WarehouseDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warehouses")
	}

	dtos := make([]WarehouseDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return pagination.NewPage(dtos, params.Limit, func(dto WarehouseDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: dto.CreatedAt, ID: dto.ID}
	}), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	warehouse, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		warehouse.Name = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
		}
		warehouse.Address = address
	}
	if input.TotalCapacity != nil {
		used, err := s.repo.SumInventoryWeight(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum warehouse inventory")
		}
		total, err := validation.Capacity(used, *input.TotalCapacity)
		if err != nil {
			return nil, err
		}
		warehouse.TotalCapacity = total
	}

	if err := s.repo.Update(ctx, warehouse); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse")
	}
	s.invalidateUtilization(ctx, id)
	return FromModel(warehouse), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadWarehouse(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountInventory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count warehouse inventory")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Cannot delete warehouse with existing inventory")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteRoomsWithTx(tx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warehouse rooms")
		}
		if err := s.repo.DeleteWithTx(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warehouse")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateUtilization(ctx, id)
	return nil
}

func (s *service) Utilization(ctx context.Context, id uuid.UUID) (*UtilizationDTO, error) {
	if cached := s.cachedUtilization(ctx, id); cached != nil {
		return cached, nil
	}

	if _, err := s.loadWarehouse(ctx, id); err != nil {
		return nil, err
	}

	total, err := s.repo.SumActiveRoomCapacity(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum active room capacity")
	}
	used, err := s.repo.SumInventoryWeight(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum warehouse inventory")
	}

	report := &UtilizationDTO{
		WarehouseID:           id,
		TotalCapacity:         total,
		UsedCapacity:          used,
		UtilizationPercentage: capacity.UtilizationPercent(used, total),
		AvailableCapacity:     capacity.Available(total, used),
	}
	s.storeUtilization(ctx, id, report)
	return report, nil
}

func (s *service) loadWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouse, nil
}

func (s *service) cachedUtilization(ctx context.Context, id uuid.UUID) *UtilizationDTO {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.UtilizationKey(id.String()))
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "utilization cache read failed")
		}
		return nil
	}
	var report UtilizationDTO
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}
	return &report
}

func (s *service) storeUtilization(ctx context.Context, id uuid.UUID, report *UtilizationDTO) {
	if s.cache == nil || s.cacheCfg.UtilizationTTL <= 0 {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.UtilizationKey(id.String()), string(payload), s.cacheCfg.UtilizationTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "utilization cache write failed")
	}
}

func (s *service) invalidateUtilization(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.UtilizationKey(id.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "utilization cache invalidation failed")
	}
}

func deref(rooms []*models.Room) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room != nil {
			out = append(out, *room)
		}
	}
	return out
}
