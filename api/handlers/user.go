package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/validation"
)

// User exists for dependency injection purposes
type User struct {
	DB databases.UserDatabase
	// AdminCode, when set, must accompany every admin signup
	AdminCode string
	Now       func() time.Time
}

// SignupRequest is the signup form. Role defaults to user.
type SignupRequest struct {
	Name      string      `json:"name" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8"`
	Role      models.Role `json:"role" validate:"omitempty,role"`
	AdminCode string      `json:"admin_code"`
}

// SignupHandler creates a user with a bcrypt password hash
func (u User) SignupHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		serviceError(w, "invalid signup", err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Role == models.RoleAdmin && u.AdminCode != "" &&
		subtle.ConstantTimeCompare([]byte(req.AdminCode), []byte(u.AdminCode)) != 1 {
		config.ErrorStatus("invalid admin signup code", http.StatusForbidden, w, fmt.Errorf("admin signup code mismatch for %s", req.Email))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := u.DB.CountDocuments(ctx, bson.M{"user.email": req.Email})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := u.now()
	user := models.User{
		ID: primitive.NewObjectID().Hex(),
		Details: models.UserDetails{
			Name:      req.Name,
			Email:     req.Email,
			Password:  string(hashedPassword),
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"_id":   user.ID,
		"email": user.Details.Email,
		"role":  string(user.Details.Role),
	})
}

func (u User) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}
