package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/api/responses"
	"github.com/angelmondragon/stowage-backend/api/validators"
	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
)

type roomUpdateRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Capacity    *decimal.Decimal `json:"capacity,omitempty"`
	Length      *decimal.Decimal `json:"length,omitempty"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
	Temperature *decimal.Decimal `json:"temperature,omitempty"`
	Humidity    *decimal.Decimal `json:"humidity,omitempty"`
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RoomCreate adds a room to a warehouse and recomputes the warehouse's
// room-derived capacity.
func RoomCreate(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "room service unavailable"))
			return
		}

		warehouseID, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload roomPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		room, err := svc.Create(r.Context(), warehouseID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, room)
	}
}

func RoomList(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func RoomGet(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		room, err := svc.GetByID(r.Context(), warehouseID, roomID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, room)
	}
}

func RoomUpdate(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload roomUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		room, err := svc.Update(r.Context(), warehouseID, roomID, rooms.UpdateRoomInput{
			Name:        payload.Name,
			Capacity:    payload.Capacity,
			Length:      payload.Length,
			Width:       payload.Width,
			Height:      payload.Height,
			Temperature: payload.Temperature,
			Humidity:    payload.Humidity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, room)
	}
}

// RoomUpdateStatus drives the room lifecycle state machine.
func RoomUpdateStatus(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload roomStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseRoomStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid room status"))
			return
		}

		room, err := svc.UpdateStatus(r.Context(), warehouseID, roomID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, room)
	}
}

func RoomDelete(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), warehouseID, roomID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// RoomConditions reports the room's environmental settings.
func RoomConditions(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conditions, err := svc.Conditions(r.Context(), warehouseID, roomID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, conditions)
	}
}

// RoomAvailability checks whether a load with the given dimensions fits in
// the room's remaining capacity.
func RoomAvailability(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, roomID, err := roomScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		length, err := validators.ParseDecimalQuery(r, "length")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		width, err := validators.ParseDecimalQuery(r, "width")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		height, err := validators.ParseDecimalQuery(r, "height")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		availability, err := svc.CheckAvailability(r.Context(), warehouseID, roomID, length, width, height)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, availability)
	}
}

func roomScope(r *http.Request) (warehouseID, roomID uuid.UUID, err error) {
	warehouseID, err = validators.ParseUUIDParam(r, "warehouseId")
	if err != nil {
		return
	}
	roomID, err = validators.ParseUUIDParam(r, "roomId")
	return
}
