package handlers

import (
	"net/http"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/i18n"
)

// LabelsHandler returns every display label table in the requested language
func LabelsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, i18n.Labels(i18n.FromRequest(r)))
}

// Metrics exists for dependency injection purposes
type Metrics struct {
	Collector *api.MetricsCollector
}

// SummaryHandler returns request counts and latencies per route
func (m Metrics) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, m.Collector.Summary())
}
