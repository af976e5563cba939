package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTraceAggregatesPerRoute(t *testing.T) {
	mc := NewMetricsCollector(2)
	defer mc.Stop()

	mc.processTrace(RequestTrace{Method: "POST", Path: "/api/v1/admin/reports/{kind}/{id}/dispatch", Status: 200, Duration: 10 * time.Millisecond})
	mc.processTrace(RequestTrace{Method: "POST", Path: "/api/v1/admin/reports/{kind}/{id}/dispatch", Status: 409, Duration: 30 * time.Millisecond})
	mc.processTrace(RequestTrace{Method: "GET", Path: "/api/v1/labels", Status: 200, Duration: time.Millisecond})

	s := mc.Summary()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	require.Len(t, s.Routes, 2)
	dispatch := s.Routes[0]
	assert.Equal(t, int64(2), dispatch.Count)
	assert.Equal(t, int64(1), dispatch.ErrorCount)
	assert.Equal(t, 20*time.Millisecond, dispatch.AvgTime)
	assert.Equal(t, 10*time.Millisecond, dispatch.MinTime)
	assert.Equal(t, 30*time.Millisecond, dispatch.MaxTime)
	assert.Len(t, s.Recent, 2)
	assert.Equal(t, "/api/v1/labels", s.Recent[1].Path)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	mc := NewMetricsCollector(10)
	defer mc.Stop()

	r := mux.NewRouter()
	r.Use(mc.MetricsMiddleware)
	r.HandleFunc("/api/v1/admin/rehab-cases/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}).Methods("PUT")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("PUT", "/api/v1/admin/rehab-cases/abc123/status", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	assert.Eventually(t, func() bool {
		s := mc.Summary()
		return len(s.Routes) == 1 && s.Routes[0].Path == "/api/v1/admin/rehab-cases/{id}/status" && s.TotalErrors == 1
	}, time.Second, 10*time.Millisecond)
}
