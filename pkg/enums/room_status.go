package enums

import "fmt"

// RoomStatus represents the operational state of a storage room.
type RoomStatus string

const (
	RoomStatusActive         RoomStatus = "active"
	RoomStatusMaintenance    RoomStatus = "maintenance"
	RoomStatusDecommissioned RoomStatus = "decommissioned"
)

var validRoomStatuses = []RoomStatus{
	RoomStatusActive,
	RoomStatusMaintenance,
	RoomStatusDecommissioned,
}

// roomStatusTransitions enumerates the legal edges. Self-transitions are
// always rejected.
var roomStatusTransitions = map[RoomStatus][]RoomStatus{
	RoomStatusActive:         {RoomStatusMaintenance, RoomStatusDecommissioned},
	RoomStatusMaintenance:    {RoomStatusActive, RoomStatusDecommissioned},
	RoomStatusDecommissioned: {RoomStatusActive},
}

// String implements fmt.Stringer.
func (s RoomStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RoomStatus.
func (s RoomStatus) IsValid() bool {
	for _, candidate := range validRoomStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the room may move from s to next.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	for _, candidate := range roomStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseRoomStatus converts raw input into a RoomStatus.
func ParseRoomStatus(value string) (RoomStatus, error) {
	for _, candidate := range validRoomStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room status %q", value)
}
