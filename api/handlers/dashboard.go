package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/dashboard"
	"github.com/sajhasahayog/relief-api/export"
	"github.com/sajhasahayog/relief-api/geo"
	"github.com/sajhasahayog/relief-api/i18n"
)

// Dashboard serves the admin views. All of them read the same cached snapshot.
type Dashboard struct {
	Aggregator *dashboard.Aggregator
	Now        func() time.Time
}

// MapResponse is the map view: where to centre it, the country bounds and one marker per report
type MapResponse struct {
	Center  geo.Point          `json:"center"`
	Bounds  geo.Bounds         `json:"bounds"`
	Markers []dashboard.Marker `json:"markers"`
}

// DashboardHandler returns the full snapshot. ?refresh=true refetches every list.
func (h Dashboard) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ReportsHandler returns the feed view
func (h Dashboard) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Reports)
}

// MapHandler returns the map view
func (h Dashboard) MapHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MapResponse{
		Center:  geo.DashboardCenter,
		Bounds:  geo.Nepal,
		Markers: dashboard.Markers(snap.Reports),
	})
}

// GalleryHandler returns the reports that carry a photo
func (h Dashboard) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Gallery)
}

// ExportHandler renders the current reports as csv, html or xlsx
func (h Dashboard) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		config.ErrorStatus("unsupported export format", http.StatusBadRequest, w, errors.Errorf("format %q", r.URL.Query().Get("format")))
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, snap.Reports, i18n.FromRequest(r), now); err != nil {
		config.ErrorStatus("failed to export reports", http.StatusInternalServerError, w, err)
		return
	}

	disposition := "attachment"
	if format == export.HTML {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, export.Filename(format, now)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		zap.S().Warnw("failed to write export", "format", format, "error", err)
	}
}

func (h Dashboard) snapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	refresh := false
	if v := r.URL.Query().Get("refresh"); v != "" {
		var err error
		refresh, err = strconv.ParseBool(v)
		if err != nil {
			config.ErrorStatus("refresh must be true or false", http.StatusBadRequest, w, err)
			return nil, false
		}
	}
	snap, err := h.Aggregator.Snapshot(r.Context(), refresh)
	if err != nil {
		serviceError(w, "failed to load dashboard", err)
		return nil, false
	}
	return snap, true
}

func (h Dashboard) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}
