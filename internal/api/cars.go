package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/garage"
)

func createCarHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "clientId must be a valid UUID")
			return
		}

		car, err := svc.CreateCar(r.Context(), garage.Car{
			ClientID:     clientID,
			Brand:        req.Brand,
			Model:        req.Model,
			Year:         req.Year,
			LicensePlate: req.LicensePlate,
		})
		if err != nil {
			handleCarError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, carResponse(*car))
	}
}

func updateCarHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_car_id")
		if !ok {
			return
		}

		var req CarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		car, err := svc.UpdateCar(r.Context(), garage.Car{
			ID:           id,
			Brand:        req.Brand,
			Model:        req.Model,
			Year:         req.Year,
			LicensePlate: req.LicensePlate,
		})
		if err != nil {
			handleCarError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, carResponse(*car))
	}
}

func getCarHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_car_id")
		if !ok {
			return
		}

		car, err := svc.GetCar(r.Context(), id)
		if err != nil {
			handleCarError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, carResponse(*car))
	}
}

func deleteCarHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_car_id")
		if !ok {
			return
		}

		if err := svc.DeleteCar(r.Context(), id); err != nil {
			handleCarError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCarError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, garage.ErrInvalidCar):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, garage.ErrCarNotFound):
		writeError(w, http.StatusNotFound, "car_not_found", err.Error())
	case errors.Is(err, garage.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
