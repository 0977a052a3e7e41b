package capacity

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/pkg/db/models"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// RoomVolume computes the geometric volume of a room rounded to two places.
func RoomVolume(length, width, height decimal.Decimal) decimal.Decimal {
	return length.Mul(width).Mul(height).Round(2)
}

// WarehouseCapacity aggregates the volume of rooms currently in service.
// Rooms under maintenance or decommissioned do not contribute.
func WarehouseCapacity(rooms []models.Room) decimal.Decimal {
	total := decimal.Zero
	for _, room := range rooms {
		if room.Status != enums.RoomStatusActive {
			continue
		}
		total = total.Add(room.Volume())
	}
	return total.Round(2)
}

// Available returns the remaining admissible volume, never below zero.
func Available(total, used decimal.Decimal) decimal.Decimal {
	available := total.Sub(used)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// UtilizationPercent computes used/total as a percentage rounded to two
// places. A zero or negative total yields zero rather than dividing.
func UtilizationPercent(used, total decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return used.Div(total).Mul(hundred).Round(2)
}

// CheckRoomAdmission verifies the room can absorb the additional quantity.
func CheckRoomAdmission(roomCapacity, roomUsed, quantity decimal.Decimal) error {
	if roomUsed.Add(quantity).GreaterThan(roomCapacity) {
		return pkgerrors.New(pkgerrors.CodeCapacityExceeded, "Insufficient room capacity").
			WithDetails(map[string]string{
				"capacity":  roomCapacity.String(),
				"used":      roomUsed.String(),
				"requested": quantity.String(),
			})
	}
	return nil
}

// CheckWarehouseAdmission verifies the warehouse aggregate can absorb the
// additional quantity.
func CheckWarehouseAdmission(totalCapacity, totalUsed, quantity decimal.Decimal) error {
	if totalUsed.Add(quantity).GreaterThan(totalCapacity) {
		return pkgerrors.New(pkgerrors.CodeCapacityExceeded, "Insufficient warehouse capacity").
			WithDetails(map[string]string{
				"capacity":  totalCapacity.String(),
				"used":      totalUsed.String(),
				"requested": quantity.String(),
			})
	}
	return nil
}
