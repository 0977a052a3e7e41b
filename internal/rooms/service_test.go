package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, &stubWarehouseRepo{}, stubTx{}, nil); err == nil {
		t.Fatal("expected error without room repo")
	}
	if _, err := NewService(&stubRoomRepo{}, nil, stubTx{}, nil); err == nil {
		t.Fatal("expected error without warehouse repo")
	}
	if _, err := NewService(&stubRoomRepo{}, &stubWarehouseRepo{}, nil, nil); err == nil {
		t.Fatal("expected error without tx runner")
	}
}

func TestServiceCreateRecomputesWarehouseCapacity(t *testing.T) {
	warehouse := baseWarehouse()
	repo := &stubRoomRepo{}
	warehouses := &stubWarehouseRepo{warehouse: warehouse}
	svc := mustService(t, repo, warehouses)

	dto, err := svc.Create(context.Background(), warehouse.ID, CreateRoomInput{
		Name:        "Cold Room A",
		Capacity:    dec("100"),
		Length:      dec("10"),
		Width:       dec("10"),
		Height:      dec("10"),
		Temperature: dec("4.5"),
		Humidity:    dec("60"),
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if dto.Status != enums.RoomStatusActive {
		t.Fatalf("expected new room ACTIVE, got %s", dto.Status)
	}
	if !dto.CurrentUtilization.IsZero() {
		t.Fatalf("expected zero utilization, got %s", dto.CurrentUtilization)
	}
	if warehouses.setCapacity == nil {
		t.Fatal("expected warehouse capacity recompute")
	}
	if warehouses.setCapacity.String() != "1000" {
		t.Fatalf("expected recomputed capacity 1000, got %s", warehouses.setCapacity)
	}
}

func TestServiceCreateRejectsBadDimensions(t *testing.T) {
	warehouse := baseWarehouse()
	svc := mustService(t, &stubRoomRepo{}, &stubWarehouseRepo{warehouse: warehouse})

	_, err := svc.Create(context.Background(), warehouse.ID, CreateRoomInput{
		Name:        "Bad Room",
		Capacity:    dec("100"),
		Length:      dec("0"),
		Width:       dec("10"),
		Height:      dec("10"),
		Temperature: dec("4"),
		Humidity:    dec("60"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateRejectsBadTemperatureIncrement(t *testing.T) {
	warehouse := baseWarehouse()
	svc := mustService(t, &stubRoomRepo{}, &stubWarehouseRepo{warehouse: warehouse})

	_, err := svc.Create(context.Background(), warehouse.ID, CreateRoomInput{
		Name:        "Bad Room",
		Capacity:    dec("100"),
		Length:      dec("10"),
		Width:       dec("10"),
		Height:      dec("10"),
		Temperature: dec("4.3"),
		Humidity:    dec("60"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateWarehouseNotFound(t *testing.T) {
	svc := mustService(t, &stubRoomRepo{}, &stubWarehouseRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Create(context.Background(), uuid.New(), CreateRoomInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateDimensionsBlockedWithInventory(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("25")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	_, err := svc.Update(context.Background(), room.WarehouseID, room.ID, UpdateRoomInput{
		Length: decPtr("12"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Cannot modify dimensions of room with inventory" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if repo.updated != nil {
		t.Fatal("blocked update must not persist")
	}
}

func TestServiceUpdateDimensionsWhenEmpty(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	warehouses := &stubWarehouseRepo{warehouse: baseWarehouse()}
	svc := mustService(t, repo, warehouses)

	dto, err := svc.Update(context.Background(), room.WarehouseID, room.ID, UpdateRoomInput{
		Length: decPtr("20"),
	})
	if err != nil {
		t.Fatalf("update room: %v", err)
	}
	if dto.Length.String() != "20" {
		t.Fatalf("expected length 20, got %s", dto.Length)
	}
	if warehouses.setCapacity == nil {
		t.Fatal("dimension change must recompute warehouse capacity")
	}
}

func TestServiceUpdateCapacityBelowUsage(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("40")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	_, err := svc.Update(context.Background(), room.WarehouseID, room.ID, UpdateRoomInput{
		Capacity: decPtr("30"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "capacity: Cannot reduce capacity below current usage (40)" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceUpdateStatusLegalTransition(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	warehouses := &stubWarehouseRepo{warehouse: baseWarehouse()}
	svc := mustService(t, repo, warehouses)

	dto, err := svc.UpdateStatus(context.Background(), room.WarehouseID, room.ID, enums.RoomStatusMaintenance)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.RoomStatusMaintenance {
		t.Fatalf("expected maintenance, got %s", dto.Status)
	}
	if warehouses.setCapacity == nil {
		t.Fatal("status change must recompute warehouse capacity")
	}
	if !warehouses.setCapacity.IsZero() {
		t.Fatalf("maintenance room must not count toward capacity, got %s", warehouses.setCapacity)
	}
}

func TestServiceUpdateStatusRejectsSelfTransition(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	_, err := svc.UpdateStatus(context.Background(), room.WarehouseID, room.ID, enums.RoomStatusActive)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if typed.Message() != "Invalid status transition from active to active" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceDeleteBlockedWithInventory(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("1")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	err := svc.Delete(context.Background(), room.WarehouseID, room.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Cannot delete room with existing inventory" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if repo.deleted {
		t.Fatal("blocked delete must not run")
	}
}

func TestServiceDeleteSuccessRecomputes(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	warehouses := &stubWarehouseRepo{warehouse: baseWarehouse()}
	svc := mustService(t, repo, warehouses)

	if err := svc.Delete(context.Background(), room.WarehouseID, room.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected delete to run")
	}
	if warehouses.setCapacity == nil {
		t.Fatal("delete must recompute warehouse capacity")
	}
}

func TestServiceGetByIDWrongWarehouse(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	_, err := svc.GetByID(context.Background(), uuid.New(), room.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceGetByIDDerivesUtilization(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("50")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	dto, err := svc.GetByID(context.Background(), room.WarehouseID, room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if dto.CurrentUtilization.String() != "50" {
		t.Fatalf("expected utilization 50, got %s", dto.CurrentUtilization)
	}
	if dto.AvailableCapacity.String() != "50" {
		t.Fatalf("expected available 50, got %s", dto.AvailableCapacity)
	}
}

func TestServiceCreateInvalidatesUtilizationCache(t *testing.T) {
	warehouse := baseWarehouse()
	cache := &stubUtilizationCache{}
	svc := mustCachedService(t, &stubRoomRepo{}, &stubWarehouseRepo{warehouse: warehouse}, cache)

	_, err := svc.Create(context.Background(), warehouse.ID, CreateRoomInput{
		Name:        "Cold Room A",
		Capacity:    dec("100"),
		Length:      dec("10"),
		Width:       dec("10"),
		Height:      dec("10"),
		Temperature: dec("4.5"),
		Humidity:    dec("60"),
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	cache.expectDeleted(t, warehouse.ID.String())
}

func TestServiceUpdateStatusInvalidatesUtilizationCache(t *testing.T) {
	room := baseRoom()
	cache := &stubUtilizationCache{}
	svc := mustCachedService(t, &stubRoomRepo{room: room}, &stubWarehouseRepo{warehouse: baseWarehouse()}, cache)

	if _, err := svc.UpdateStatus(context.Background(), room.WarehouseID, room.ID, enums.RoomStatusMaintenance); err != nil {
		t.Fatalf("update status: %v", err)
	}
	cache.expectDeleted(t, room.WarehouseID.String())
}

func TestServiceDeleteInvalidatesUtilizationCache(t *testing.T) {
	room := baseRoom()
	cache := &stubUtilizationCache{}
	svc := mustCachedService(t, &stubRoomRepo{room: room}, &stubWarehouseRepo{warehouse: baseWarehouse()}, cache)

	if err := svc.Delete(context.Background(), room.WarehouseID, room.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	cache.expectDeleted(t, room.WarehouseID.String())
}

func TestServiceCheckAvailabilityFits(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("50")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	result, err := svc.CheckAvailability(context.Background(), room.WarehouseID, room.ID, dec("2"), dec("2"), dec("2"))
	if err != nil {
		t.Fatalf("check availability: %v", err)
	}
	if !result.Available {
		t.Fatal("expected load to fit")
	}
	if result.RequiredVolume.String() != "8" {
		t.Fatalf("expected required volume 8, got %s", result.RequiredVolume)
	}
	if result.AvailableCapacity.String() != "50" {
		t.Fatalf("expected available 50, got %s", result.AvailableCapacity)
	}
}

func TestServiceCheckAvailabilityOversizedLoad(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room, usedWeight: dec("50")}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	result, err := svc.CheckAvailability(context.Background(), room.WarehouseID, room.ID, dec("5"), dec("5"), dec("5"))
	if err != nil {
		t.Fatalf("check availability: %v", err)
	}
	if result.Available {
		t.Fatal("expected oversized load to be rejected")
	}
}

func TestServiceCheckAvailabilityRejectsBadDimensions(t *testing.T) {
	room := baseRoom()
	svc := mustService(t, &stubRoomRepo{room: room}, &stubWarehouseRepo{warehouse: baseWarehouse()})

	_, err := svc.CheckAvailability(context.Background(), room.WarehouseID, room.ID, dec("0"), dec("2"), dec("2"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceConditions(t *testing.T) {
	room := baseRoom()
	repo := &stubRoomRepo{room: room}
	svc := mustService(t, repo, &stubWarehouseRepo{warehouse: baseWarehouse()})

	conditions, err := svc.Conditions(context.Background(), room.WarehouseID, room.ID)
	if err != nil {
		t.Fatalf("conditions: %v", err)
	}
	if !conditions.Temperature.Equal(room.Temperature) {
		t.Fatalf("expected temperature %s, got %s", room.Temperature, conditions.Temperature)
	}
	if conditions.Status != room.Status {
		t.Fatalf("expected status %s, got %s", room.Status, conditions.Status)
	}
}

func mustService(t *testing.T, repo roomRepository, warehouses warehouseRepository) Service {
	t.Helper()
	svc, err := NewService(repo, warehouses, stubTx{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCachedService(t *testing.T, repo roomRepository, warehouses warehouseRepository, cache utilizationInvalidator) Service {
	t.Helper()
	svc, err := NewService(repo, warehouses, stubTx{}, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func baseWarehouse() *models.Warehouse {
	return &models.Warehouse{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Name:       "North DC",
		Address:    "1 Dock Way",
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func baseRoom() *models.Room {
	return &models.Room{
		ID:          uuid.New(),
		WarehouseID: uuid.New(),
		Name:        "Cold Room A",
		Capacity:    dec("100"),
		Length:      dec("10"),
		Width:       dec("10"),
		Height:      dec("10"),
		Temperature: dec("4.5"),
		Humidity:    dec("60"),
		Status:      enums.RoomStatusActive,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRoomRepo struct {
	room       *models.Room
	usedWeight decimal.Decimal

	findErr error

	created *models.Room
	updated *models.Room
	deleted bool
}

func (s *stubRoomRepo) CreateWithTx(tx *gorm.DB, room *models.Room) error {
	room.ID = uuid.New()
	s.created = room
	s.room = room
	return nil
}

func (s *stubRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.room == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.room
	return &cpy, nil
}

func (s *stubRoomRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]models.Room, error) {
	if s.room == nil {
		return nil, nil
	}
	return []models.Room{*s.room}, nil
}

func (s *stubRoomRepo) FindByWarehouseWithTx(tx *gorm.DB, warehouseID uuid.UUID) ([]models.Room, error) {
	if s.deleted || s.room == nil {
		return nil, nil
	}
	room := *s.room
	if s.updated != nil {
		room = *s.updated
	}
	return []models.Room{room}, nil
}

func (s *stubRoomRepo) UpdateWithTx(tx *gorm.DB, room *models.Room) error {
	s.updated = room
	return nil
}

func (s *stubRoomRepo) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubRoomRepo) SumInventoryWeight(ctx context.Context, roomID uuid.UUID) (decimal.Decimal, error) {
	return s.usedWeight, nil
}

type stubUtilizationCache struct {
	deleted []string
}

func (s *stubUtilizationCache) Del(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}

func (s *stubUtilizationCache) UtilizationKey(warehouseID string) string {
	return "stw:utilization:" + warehouseID
}

func (s *stubUtilizationCache) expectDeleted(t *testing.T, warehouseID string) {
	t.Helper()
	key := s.UtilizationKey(warehouseID)
	for _, deleted := range s.deleted {
		if deleted == key {
			return
		}
	}
	t.Fatalf("expected cache key %s to be invalidated, got %v", key, s.deleted)
}

type stubWarehouseRepo struct {
	warehouse *models.Warehouse
	findErr   error

	setCapacity *decimal.Decimal
}

func (s *stubWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.warehouse == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *s.warehouse
	return &cpy, nil
}

func (s *stubWarehouseRepo) SetTotalCapacityWithTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	s.setCapacity = &total
	return nil
}
