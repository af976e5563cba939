package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/api/handlers"
	"github.com/sajhasahayog/relief-api/api/testhelpers"
	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/databases/mocks"
	"github.com/sajhasahayog/relief-api/models"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) *handlers.App {
	t.Helper()
	conf := config.Config{JWTSecret: testSecret, TokenTTL: time.Hour, RequestTimeout: time.Minute}
	a := handlers.NewApp(conf, &mocks.DatabaseHelper{}, nil, nil)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func bearer(t *testing.T, role models.Role) string {
	t.Helper()
	token, _, err := api.NewAuth(&mocks.UserDatabase{}, testSecret, time.Hour).IssueToken("someone", "someone@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t)
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		status int
	}{
		{name: "health", method: "GET", target: "/health", status: http.StatusOK},
		{name: "labels are public", method: "GET", target: "/api/v1/labels?lang=np", status: http.StatusOK},
		{name: "intake needs a user", method: "POST", target: "/api/v1/reports/damage", status: http.StatusUnauthorized},
		{name: "dashboard needs a user", method: "GET", target: "/api/v1/admin/dashboard", status: http.StatusUnauthorized},
		{name: "dashboard needs an admin", method: "GET", target: "/api/v1/admin/dashboard", auth: bearer(t, models.RoleUser), status: http.StatusForbidden},
		{name: "unknown report kind", method: "POST", target: "/api/v1/admin/reports/fire/" + id + "/dispatch", auth: bearer(t, models.RoleAdmin), status: http.StatusNotFound},
		{name: "metrics", method: "GET", target: "/api/v1/admin/metrics", auth: bearer(t, models.RoleAdmin), status: http.StatusOK},
		{name: "feed needs a token", method: "GET", target: "/ws/admin/feed", status: http.StatusUnauthorized},
		{name: "wrong method", method: "DELETE", target: "/api/v1/admin/rehab-cases", auth: bearer(t, models.RoleAdmin), status: http.StatusMethodNotAllowed},
		{name: "unknown route", method: "GET", target: "/api/v1/nowhere", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			a.Router.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestRoutesSetRequestID(t *testing.T) {
	a := newTestApp(t)

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/labels", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestSignupRouteRejectsBadBody(t *testing.T) {
	a := newTestApp(t)

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/auth/signup", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "failed to decode request", testhelpers.ErrorMessage(t, rr.Body.Bytes()).Message)
}
