package handlers

import (
	"net/http"

	"github.com/sajhasahayog/relief-api/aid"
	"github.com/sajhasahayog/relief-api/models"
)

// Aid exists for dependency injection purposes
type Aid struct {
	Service *aid.Service
}

// AidListResponse is the delivery log with per item and unit totals
type AidListResponse struct {
	AidLogs []models.AidLog   `json:"aid_logs"`
	Totals  []models.AidTotal `json:"totals"`
	Count   int               `json:"count"`
}

// LogHandler records one delivery with an optional "proof" photo
func (h Aid) LogHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var in aid.LogInput
	proof, done, err := readForm(w, r, &in, "proof")
	defer done()
	if err != nil {
		serviceError(w, "invalid aid log", err)
		return
	}

	entry, err := h.Service.Log(r.Context(), in, proof)
	if err != nil {
		serviceError(w, "failed to log aid delivery", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListHandler returns every delivery, newest first
func (h Aid) ListHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	logs, err := h.Service.List(r.Context())
	if err != nil {
		serviceError(w, "failed to get aid logs", err)
		return
	}
	if logs == nil {
		logs = []models.AidLog{}
	}
	writeJSON(w, http.StatusOK, AidListResponse{AidLogs: logs, Totals: aid.Totals(logs), Count: len(logs)})
}
