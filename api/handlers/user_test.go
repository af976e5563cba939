package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/sajhasahayog/relief-api/api/handlers"
	"github.com/sajhasahayog/relief-api/api/testhelpers"
	"github.com/sajhasahayog/relief-api/databases/mocks"
	"github.com/sajhasahayog/relief-api/models"
)

var fixedNow = time.Date(2025, 4, 25, 11, 56, 0, 0, time.UTC)

func signup(t *testing.T, u handlers.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	u.SignupHandler(rr, httptest.NewRequest("POST", "/api/v1/auth/signup", strings.NewReader(body)))
	return rr
}

func TestSignupCreatesUser(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("CountDocuments", mock.Anything, bson.M{"user.email": "maya@example.com"}).Return(int64(0), nil)
	var inserted models.User
	db.On("InsertOne", mock.Anything, mock.AnythingOfType("models.User")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.User) }).
		Return(&mocks.InsertOneResultHelper{}, nil)

	rr := signup(t, handlers.User{DB: db, Now: func() time.Time { return fixedNow }},
		`{"name": " Maya ", "email": "Maya@Example.com", "password": "longenough"}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, inserted.ID, resp["_id"])
	assert.Equal(t, "user", resp["role"])

	assert.Equal(t, "Maya", inserted.Details.Name)
	assert.Equal(t, "maya@example.com", inserted.Details.Email)
	assert.Equal(t, models.RoleUser, inserted.Details.Role)
	assert.Equal(t, fixedNow, inserted.Details.CreatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Details.Password), []byte("longenough")))
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	rr := signup(t, handlers.User{DB: db}, `{"name": "Maya", "email": "maya@example.com", "password": "longenough"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "email already exists", testhelpers.ErrorMessage(t, rr.Body.Bytes()).Message)
	db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSignupValidation(t *testing.T) {
	cases := map[string]string{
		"bad email":      `{"name": "Maya", "email": "maya", "password": "longenough"}`,
		"short password": `{"name": "Maya", "email": "maya@example.com", "password": "short"}`,
		"unknown role":   `{"name": "Maya", "email": "maya@example.com", "password": "longenough", "role": "root"}`,
		"malformed":      `{"name": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			db := &mocks.UserDatabase{}
			rr := signup(t, handlers.User{DB: db}, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}

func TestSignupAdminCode(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	db.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	u := handlers.User{DB: db, AdminCode: "relief-2025"}

	rr := signup(t, u, `{"name": "Ops", "email": "ops@example.com", "password": "longenough", "role": "admin", "admin_code": "guess"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = signup(t, u, `{"name": "Ops", "email": "ops@example.com", "password": "longenough", "role": "admin", "admin_code": "relief-2025"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"role":"admin"`)
}

func TestSignupCountError(t *testing.T) {
	db := &mocks.UserDatabase{}
	db.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	rr := signup(t, handlers.User{DB: db}, `{"name": "Maya", "email": "maya@example.com", "password": "longenough"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
