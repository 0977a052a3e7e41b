package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stowage-backend/api/responses"
	"github.com/angelmondragon/stowage-backend/api/validators"
	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/internal/warehouses"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
)

type roomPayload struct {
	Name        string          `json:"name" validate:"required,min=1"`
	Capacity    decimal.Decimal `json:"capacity" validate:"required"`
	Length      decimal.Decimal `json:"length" validate:"required"`
	Width       decimal.Decimal `json:"width" validate:"required"`
	Height      decimal.Decimal `json:"height" validate:"required"`
	Temperature decimal.Decimal `json:"temperature"`
	Humidity    decimal.Decimal `json:"humidity"`
}

func (p roomPayload) toInput() rooms.CreateRoomInput {
	return rooms.CreateRoomInput{
		Name:        p.Name,
		Capacity:    p.Capacity,
		Length:      p.Length,
		Width:       p.Width,
		Height:      p.Height,
		Temperature: p.Temperature,
		Humidity:    p.Humidity,
	}
}

type warehouseCreateRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=1"`
	Address       string          `json:"address" validate:"required,min=1"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
	InitialRooms  []roomPayload   `json:"initial_rooms,omitempty" validate:"omitempty,dive"`
}

type warehouseUpdateRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Address       *string          `json:"address,omitempty" validate:"omitempty,min=1"`
	TotalCapacity *decimal.Decimal `json:"total_capacity,omitempty"`
}

// WarehouseCreate registers a warehouse, optionally with its initial rooms in
// the same transaction.
func WarehouseCreate(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}

		var payload warehouseCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := warehouses.CreateWarehouseDTO{
			CustomerID:    payload.CustomerID,
			Name:          payload.Name,
			Address:       payload.Address,
			TotalCapacity: payload.TotalCapacity,
		}
		for _, room := range payload.InitialRooms {
			input.InitialRooms = append(input.InitialRooms, room.toInput())
		}

		warehouse, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, warehouse)
	}
}

func WarehouseGet(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, warehouse)
	}
}

func WarehouseList(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParseUUIDQuery(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func WarehouseUpdate(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload warehouseUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.Update(r.Context(), id, warehouses.UpdateWarehouseInput{
			Name:          payload.Name,
			Address:       payload.Address,
			TotalCapacity: payload.TotalCapacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, warehouse)
	}
}

func WarehouseDelete(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// WarehouseUtilization reports live capacity usage, served from the cache
// when a fresh entry exists.
func WarehouseUtilization(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "warehouseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Utilization(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
