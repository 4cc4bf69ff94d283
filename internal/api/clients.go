package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/garageops/garage-scheduling/internal/garage"
)

func createClientHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		client, err := svc.CreateClient(r.Context(), req.FirstName, req.Name, req.Phone)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, clientResponse(*client))
	}
}

func updateClientHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_client_id")
		if !ok {
			return
		}

		var req ClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		client, err := svc.UpdateClient(r.Context(), id, req.FirstName, req.Name, req.Phone)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, clientResponse(*client))
	}
}

func getClientHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_client_id")
		if !ok {
			return
		}

		client, err := svc.GetClient(r.Context(), id)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, clientResponse(*client))
	}
}

func deleteClientHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_client_id")
		if !ok {
			return
		}

		if err := svc.DeleteClient(r.Context(), id); err != nil {
			handleClientError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listClientsHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagingParams(r)

		result, err := svc.ListClients(r.Context(), page, pageSize)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, clientPageResponse(result))
	}
}

func searchClientsHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagingParams(r)
		query := r.URL.Query().Get("query")

		result, err := svc.SearchClients(r.Context(), query, page, pageSize)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, clientPageResponse(result))
	}
}

func listClientCarsHandler(svc *garage.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_client_id")
		if !ok {
			return
		}

		cars, err := svc.ListCarsByClient(r.Context(), id)
		if err != nil {
			handleClientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, carResponses(cars))
	}
}

func pagingParams(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	pageSize, _ = strconv.Atoi(q.Get("pageSize"))
	return page, pageSize
}

func handleClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, garage.ErrInvalidName),
		errors.Is(err, garage.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, garage.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
