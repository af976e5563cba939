package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/rehab"
	"github.com/sajhasahayog/relief-api/validation"
)

// Rehab exists for dependency injection purposes
type Rehab struct {
	Service *rehab.Service
}

// RehabStatusRequest moves a case to its next status
type RehabStatusRequest struct {
	Status models.RehabStatus `json:"status" validate:"required,oneof=open in_progress completed"`
}

// RehabListResponse is the annotated case list with its status counts
type RehabListResponse struct {
	RehabCases []models.RehabCase `json:"rehab_cases"`
	Stats      models.RehabStats  `json:"stats"`
}

// CreateHandler opens a rehab case for the resolved damage report {id}
func (h Rehab) CreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var in rehab.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	rc, err := h.Service.Create(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		serviceError(w, "failed to create rehab case", err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

// ListHandler returns every case, newest first, with its damage report title
func (h Rehab) ListHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	cases, err := h.Service.List(r.Context())
	if err != nil {
		serviceError(w, "failed to get rehab cases", err)
		return
	}
	if cases == nil {
		cases = []models.RehabCase{}
	}
	writeJSON(w, http.StatusOK, RehabListResponse{RehabCases: cases, Stats: rehab.Stats(cases)})
}

// StatusHandler advances case {id} by one step
func (h Rehab) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req RehabStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		serviceError(w, "invalid rehab status", err)
		return
	}

	rc, err := h.Service.Advance(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		serviceError(w, "failed to update rehab case", err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}
