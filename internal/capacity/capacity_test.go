package capacity

import (
	"testing"

	"github.com/shopspring/decimal"

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

func TestRoomVolume(t *testing.T) {
	got := RoomVolume(dec("2.5"), dec("4"), dec("3"))
	if got.String() != "30" {
		t.Fatalf("expected 30, got %s", got)
	}

	rounded := RoomVolume(dec("1.11"), dec("1.11"), dec("1.11"))
	if rounded.String() != "1.37" {
		t.Fatalf("expected 1.37, got %s", rounded)
	}
}

func TestWarehouseCapacitySkipsInactiveRooms(t *testing.T) {
	rooms := []models.Room{
		{Length: dec("2"), Width: dec("2"), Height: dec("2"), Status: enums.RoomStatusActive},
		{Length: dec("3"), Width: dec("3"), Height: dec("3"), Status: enums.RoomStatusMaintenance},
		{Length: dec("10"), Width: dec("10"), Height: dec("10"), Status: enums.RoomStatusDecommissioned},
		{Length: dec("1"), Width: dec("1"), Height: dec("5"), Status: enums.RoomStatusActive},
	}

	got := WarehouseCapacity(rooms)
	if got.String() != "13" {
		t.Fatalf("expected 13, got %s", got)
	}
}

func TestWarehouseCapacityEmpty(t *testing.T) {
	if got := WarehouseCapacity(nil); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestAvailable(t *testing.T) {
	if got := Available(dec("100"), dec("40")); got.String() != "60" {
		t.Fatalf("expected 60, got %s", got)
	}
	if got := Available(dec("100"), dec("120")); !got.IsZero() {
		t.Fatalf("expected zero when overcommitted, got %s", got)
	}
}

func TestUtilizationPercent(t *testing.T) {
	if got := UtilizationPercent(dec("25"), dec("100")); got.String() != "25" {
		t.Fatalf("expected 25, got %s", got)
	}
	if got := UtilizationPercent(dec("1"), dec("3")); got.String() != "33.33" {
		t.Fatalf("expected 33.33, got %s", got)
	}
	if got := UtilizationPercent(dec("10"), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero for empty warehouse, got %s", got)
	}
}

func TestCheckRoomAdmission(t *testing.T) {
	if err := CheckRoomAdmission(dec("100"), dec("50"), dec("50")); err != nil {
		t.Fatalf("exact fit should be admitted: %v", err)
	}

	err := CheckRoomAdmission(dec("100"), dec("50"), dec("50.01"))
	if err == nil {
		t.Fatal("expected capacity error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCapacityExceeded {
		t.Fatalf("expected capacity exceeded code, got %v", err)
	}
	if typed.Message() != "Insufficient room capacity" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestCheckWarehouseAdmission(t *testing.T) {
	if err := CheckWarehouseAdmission(dec("500"), dec("499"), dec("1")); err != nil {
		t.Fatalf("exact fit should be admitted: %v", err)
	}

	err := CheckWarehouseAdmission(dec("500"), dec("499"), dec("1.5"))
	if err == nil {
		t.Fatal("expected capacity error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCapacityExceeded {
		t.Fatalf("expected capacity exceeded code, got %v", err)
	}
	if typed.Message() != "Insufficient warehouse capacity" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}
