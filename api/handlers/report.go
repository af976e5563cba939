package handlers

import (
	"net/http"

	"github.com/sajhasahayog/relief-api/intake"
	"github.com/sajhasahayog/relief-api/models"
)

// Report exists for dependency injection purposes
type Report struct {
	Intake *intake.Service
}

// MissingPersonHandler accepts a missing-person report with an optional "image" photo
func (h Report) MissingPersonHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in intake.MissingPersonInput
	photo, done, err := readForm(w, r, &in, "image")
	defer done()
	if err != nil {
		serviceError(w, "invalid missing person report", err)
		return
	}

	report, err := h.Intake.SubmitMissingPerson(r.Context(), user.ID(), in, photo)
	if err != nil {
		serviceError(w, "failed to submit missing person report", err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// DamageReportHandler accepts a damage/hazard report with an optional "image" photo
func (h Report) DamageReportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in intake.DamageReportInput
	photo, done, err := readForm(w, r, &in, "image")
	defer done()
	if err != nil {
		serviceError(w, "invalid damage report", err)
		return
	}

	report, err := h.Intake.SubmitDamageReport(r.Context(), user.ID(), in, photo)
	if err != nil {
		serviceError(w, "failed to submit damage report", err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// MineHandler returns the caller's most recent reports
func (h Report) MineHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	reports, err := h.Intake.Recent(r.Context(), user.ID())
	if err != nil {
		serviceError(w, "failed to get reports", err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}
