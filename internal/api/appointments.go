package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/garage"
	redisclient "github.com/garageops/garage-scheduling/internal/redis"
	"github.com/garageops/garage-scheduling/internal/schedule"
)

func createAppointmentHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := decodeAppointmentRequest(w, r)
		if !ok {
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), *params)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appointmentResponse(*appt))
	}
}

func updateAppointmentHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_appointment_id")
		if !ok {
			return
		}

		params, pOK := decodeAppointmentRequest(w, r)
		if !pOK {
			return
		}

		appt, err := svc.UpdateAppointment(r.Context(), id, *params)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentResponse(*appt))
	}
}

func getAppointmentHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_appointment_id")
		if !ok {
			return
		}

		detail, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentDetailResponse(*detail))
	}
}

func deleteAppointmentHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_appointment_id")
		if !ok {
			return
		}

		if err := svc.CancelAppointment(r.Context(), id); err != nil {
			handleAppointmentError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listAppointmentsByDayHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")

		var bay *schedule.Bay
		if b := r.URL.Query().Get("bay"); b != "" {
			v := schedule.Bay(b)
			bay = &v
		}

		details, err := svc.ListAppointmentsByDay(r.Context(), date, bay)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentDetailResponses(details))
	}
}

func listAppointmentsByClientHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := parseIDParam(w, r, "clientID", "invalid_client_id")
		if !ok {
			return
		}

		details, err := svc.ListAppointmentsByClient(r.Context(), clientID)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentDetailResponses(details))
	}
}

func dayScheduleHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		date := q.Get("date")
		bay := schedule.Bay(q.Get("bay"))

		duration := 0
		if d := q.Get("duration"); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duration must be a number of minutes")
				return
			}
			duration = n
		}

		readOnly := q.Get("readOnly") == "true"

		slots, err := svc.DaySchedule(r.Context(), date, bay, duration, readOnly, time.Now())
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, slotResponses(slots))
	}
}

func decodeAppointmentRequest(w http.ResponseWriter, r *http.Request) (*garage.AppointmentParams, bool) {
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return nil, false
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_client_id", "clientId must be a valid UUID")
		return nil, false
	}

	var carID *uuid.UUID
	if req.CarID != nil {
		id, err := uuid.Parse(*req.CarID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_car_id", "carId must be a valid UUID")
			return nil, false
		}
		carID = &id
	}

	return &garage.AppointmentParams{
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Bay:         req.Bay,
		ClientID:    clientID,
		CarID:       carID,
		ServiceType: req.ServiceType,
		ServiceNote: req.ServiceNote,
	}, true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name, code string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, garage.ErrInvalidDate),
		errors.Is(err, garage.ErrInvalidTime),
		errors.Is(err, garage.ErrInvalidBay),
		errors.Is(err, garage.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, garage.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	case errors.Is(err, garage.ErrCarNotFound):
		writeError(w, http.StatusNotFound, "car_not_found", err.Error())
	case errors.Is(err, garage.ErrCarWrongClient):
		writeError(w, http.StatusUnprocessableEntity, "car_wrong_client", err.Error())
	case errors.Is(err, garage.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, garage.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, garage.ErrBayBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "bay_being_booked", "bay is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
