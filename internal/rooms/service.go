package rooms

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
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/validation"
)

type roomRepository interface {
	CreateWithTx(tx *gorm.DB, room *models.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]models.Room, error)
	FindByWarehouseWithTx(tx *gorm.DB, warehouseID uuid.UUID) ([]models.Room, error)
	UpdateWithTx(tx *gorm.DB, room *models.Room) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
	SumInventoryWeight(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error)
}

type warehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	SetTotalCapacityWithTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type utilizationInvalidator interface {
	Del(ctx context.Context, keys ...string) error
	UtilizationKey(warehouseID string) string
}

// Service exposes room operations.
type Service interface {
	Create(ctx context.Context, warehouseID uuid.UUID, input CreateRoomInput) (*RoomDTO, error)
	GetByID(ctx context.Context, warehouseID, roomID uuid.UUID) (*RoomDTO, error)
	List(ctx context.Context, warehouseID uuid.UUID) ([]RoomDTO, error)
	Update(ctx context.Context, warehouseID, roomID uuid.UUID, input UpdateRoomInput) (*RoomDTO, error)
	UpdateStatus(ctx context.Context, warehouseID, roomID uuid.UUID, newStatus enums.RoomStatus) (*RoomDTO, error)
	Delete(ctx context.Context, warehouseID, roomID uuid.UUID) error
	Conditions(ctx context.Context, warehouseID, roomID uuid.UUID) (*ConditionsDTO, error)
	CheckAvailability(ctx context.Context, warehouseID, roomID uuid.UUID, length, width, height decimal.Decimal) (*AvailabilityDTO, error)
}

type service struct {
	repo       roomRepository
	warehouses warehouseRepository
	tx         txRunner
	cache      utilizationInvalidator
}

// NewService builds a room service with the provided dependencies. The cache
// is optional; when nil, utilization reports rely on their TTL to refresh.
func NewService(repo roomRepository, warehouses warehouseRepository, tx txRunner, cache utilizationInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("room repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, warehouses: warehouses, tx: tx, cache: cache}, nil
}

// BuildRoom validates the creation input and assembles the model. New rooms
// always start in ACTIVE.
func BuildRoom(warehouseID uuid.UUID, input CreateRoomInput) (*models.Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	length, width, height, err := validation.Dimensions(input.Length, input.Width, input.Height)
	if err != nil {
		return nil, err
	}
	roomCapacity, err := validation.PositiveDecimal(input.Capacity, "capacity")
	if err != nil {
		return nil, err
	}
	temperature, err := validation.Temperature(input.Temperature)
	if err != nil {
		return nil, err
	}
	humidity, err := validation.Humidity(input.Humidity)
	if err != nil {
		return nil, err
	}

	return &models.Room{
		WarehouseID: warehouseID,
		Name:        name,
		Capacity:    roomCapacity,
		Length:      length,
		Width:       width,
		Height:      height,
		Temperature: temperature,
		Humidity:    humidity,
		Status:      enums.RoomStatusActive,
	}, nil
}

func (s *service) Create(ctx context.Context, warehouseID uuid.UUID, input CreateRoomInput) (*RoomDTO, error) {
	if _, err := s.loadWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}

	room, err := BuildRoom(warehouseID, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, room); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create room")
		}
		return s.recomputeWarehouseCapacity(tx, warehouseID)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, warehouseID)

	return FromModel(room, decimal.Zero), nil
}

func (s *service) GetByID(ctx context.Context, warehouseID, roomID uuid.UUID) (*RoomDTO, error) {
	room, err := s.loadRoom(ctx, warehouseID, roomID)
	if err != nil {
		return nil, err
	}
	used, err := s.usedWeight(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return FromModel(room, used), nil
}

func (s *service) List(ctx context.Context, warehouseID uuid.UUID) ([]RoomDTO, error) {
	if _, err := s.loadWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}

	rooms, err := s.repo.FindByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rooms")
	}

	dtos := make([]RoomDTO, 0, len(rooms))
	for i := range rooms {
		used, err := s.usedWeight(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *FromModel(&rooms[i], used))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, warehouseID, roomID uuid.UUID, input UpdateRoomInput) (*RoomDTO, error) {
	room, err := s.loadRoom(ctx, warehouseID, roomID)
	if err != nil {
		return nil, err
	}

	used, err := s.usedWeight(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if input.TouchesDimensions() && used.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cannot modify dimensions of room with inventory")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		room.Name = name
	}

	if input.TouchesDimensions() {
		length, width, height := room.Length, room.Width, room.Height
		if input.Length != nil {
			length = *input.Length
		}
		if input.Width != nil {
			width = *input.Width
		}
		if input.Height != nil {
			height = *input.Height
		}
		length, width, height, err = validation.Dimensions(length, width, height)
		if err != nil {
			return nil, err
		}
		room.Length, room.Width, room.Height = length, width, height
	}

	if input.Capacity != nil {
		newCapacity, err := validation.Capacity(used, *input.Capacity)
		if err != nil {
			return nil, err
		}
		room.Capacity = newCapacity
	}

	if input.Temperature != nil {
		temperature, err := validation.Temperature(*input.Temperature)
		if err != nil {
			return nil, err
		}
		room.Temperature = temperature
	}
	if input.Humidity != nil {
		humidity, err := validation.Humidity(*input.Humidity)
		if err != nil {
			return nil, err
		}
		room.Humidity = humidity
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateWithTx(tx, room); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update room")
		}
		if input.TouchesDimensions() {
			return s.recomputeWarehouseCapacity(tx, warehouseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, warehouseID)

	return FromModel(room, used), nil
}

func (s *service) UpdateStatus(ctx context.Context, warehouseID, roomID uuid.UUID, newStatus enums.RoomStatus) (*RoomDTO, error) {
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room status")
	}

	room, err := s.loadRoom(ctx, warehouseID, roomID)
	if err != nil {
		return nil, err
	}

	if !room.Status.CanTransitionTo(newStatus) {
		message := fmt.Sprintf("Invalid status transition from %s to %s", room.Status, newStatus)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, message)
	}

	room.Status = newStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateWithTx(tx, room); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update room status")
		}
		// status gates whether the room counts toward warehouse capacity
		return s.recomputeWarehouseCapacity(tx, warehouseID)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUtilization(ctx, warehouseID)

	used, err := s.usedWeight(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return FromModel(room, used), nil
}

func (s *service) Delete(ctx context.Context, warehouseID, roomID uuid.UUID) error {
	if _, err := s.loadRoom(ctx, warehouseID, roomID); err != nil {
		return err
	}

	used, err := s.usedWeight(ctx, roomID)
	if err != nil {
		return err
	}
	if used.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Cannot delete room with existing inventory")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteWithTx(tx, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete room")
		}
		return s.recomputeWarehouseCapacity(tx, warehouseID)
	})
	if err != nil {
		return err
	}
	s.invalidateUtilization(ctx, warehouseID)
	return nil
}

func (s *service) Conditions(ctx context.Context, warehouseID, roomID uuid.UUID) (*ConditionsDTO, error) {
	room, err := s.loadRoom(ctx, warehouseID, roomID)
	if err != nil {
		return nil, err
	}
	return &ConditionsDTO{
		RoomID:      room.ID,
		Temperature: room.Temperature,
		Humidity:    room.Humidity,
		Status:      room.Status,
	}, nil
}

// CheckAvailability reports whether a load with the given dimensions fits in
// the room's remaining capacity.
func (s *service) CheckAvailability(ctx context.Context, warehouseID, roomID uuid.UUID, length, width, height decimal.Decimal) (*AvailabilityDTO, error) {
	length, width, height, err := validation.Dimensions(length, width, height)
	if err != nil {
		return nil, err
	}

	room, err := s.loadRoom(ctx, warehouseID, roomID)
	if err != nil {
		return nil, err
	}
	used, err := s.usedWeight(ctx, roomID)
	if err != nil {
		return nil, err
	}

	required := capacity.RoomVolume(length, width, height)
	available := capacity.Available(room.Capacity, used)
	return &AvailabilityDTO{
		RoomID:            room.ID,
		RequiredVolume:    required,
		AvailableCapacity: available,
		Available:         available.GreaterThanOrEqual(required),
	}, nil
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

func (s *service) loadRoom(ctx context.Context, warehouseID, roomID uuid.UUID) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	if room.WarehouseID != warehouseID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found in warehouse")
	}
	return room, nil
}

func (s *service) usedWeight(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error) {
	used, err := s.repo.SumInventoryWeight(ctx, roomID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum room inventory")
	}
	return used, nil
}

// invalidateUtilization drops the cached utilization report after a mutation
// commits. Best effort: a stale entry still expires with its TTL.
func (s *service) invalidateUtilization(ctx context.Context, warehouseID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, s.cache.UtilizationKey(warehouseID.String()))
}

func (s *service) recomputeWarehouseCapacity(tx *gorm.DB, warehouseID uuid.UUID) error {
	rooms, err := s.repo.FindByWarehouseWithTx(tx, warehouseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse rooms")
	}
	total := capacity.WarehouseCapacity(rooms)
	if err := s.warehouses.SetTotalCapacityWithTx(tx, warehouseID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse capacity")
	}
	return nil
}
