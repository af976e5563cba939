package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/dispatch"
	"github.com/sajhasahayog/relief-api/models"
)

// Dispatch exists for dependency injection purposes
type Dispatch struct {
	Service *dispatch.Service
}

// DispatchHandler assigns a response team to a pending report
func (h Dispatch) DispatchHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	kind, id, ok := reportTarget(w, r)
	if !ok {
		return
	}

	var in dispatch.DispatchInput
	if err := decodeJSON(r, &in); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	report, err := h.Service.Dispatch(r.Context(), kind, id, in)
	if err != nil {
		serviceError(w, "failed to dispatch report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// InProgressHandler marks a dispatched report as being worked on
func (h Dispatch) InProgressHandler(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to mark report in progress", h.Service.MarkInProgress)
}

// ResolveHandler marks a dispatched or in-progress report resolved
func (h Dispatch) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to resolve report", h.Service.MarkResolved)
}

func (h Dispatch) apply(w http.ResponseWriter, r *http.Request, message string,
	transition func(context.Context, models.ReportKind, string) (*models.Report, error)) {
	w.Header().Set("Content-Type", "application/json")
	kind, id, ok := reportTarget(w, r)
	if !ok {
		return
	}

	report, err := transition(r.Context(), kind, id)
	if err != nil {
		serviceError(w, message, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// reportTarget reads {kind} and {id} from the path. Unknown kinds are a 404.
func reportTarget(w http.ResponseWriter, r *http.Request) (models.ReportKind, string, bool) {
	vars := mux.Vars(r)
	kind := models.ReportKind(vars["kind"])
	if !kind.Valid() {
		config.ErrorStatus("unknown report kind", http.StatusNotFound, w, errors.Errorf("report kind %q", vars["kind"]))
		return "", "", false
	}
	return kind, vars["id"], true
}
