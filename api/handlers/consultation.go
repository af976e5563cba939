package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/validation"
)

// Consultation exists for dependency injection purposes
type Consultation struct {
	DB  databases.ConsultationDatabase
	Now func() time.Time
}

// ConsultationRequest asks an expert a question
type ConsultationRequest struct {
	Question    string `json:"question" validate:"required"`
	ContactInfo string `json:"contact_info" validate:"required"`
}

// CreateHandler stores a consultation request. Signed-in callers are recorded as the requester.
func (c Consultation) CreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req ConsultationRequest
	if err := decodeJSON(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	req.ContactInfo = strings.TrimSpace(req.ContactInfo)
	if err := validation.Struct(req); err != nil {
		serviceError(w, "invalid consultation request", err)
		return
	}

	consultation := models.Consultation{
		ID:          primitive.NewObjectID(),
		Question:    req.Question,
		ContactInfo: req.ContactInfo,
		CreatedAt:   c.now(),
	}
	if user, ok := api.UserFromContext(r.Context()); ok {
		consultation.RequesterID = user.ID()
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := c.DB.InsertOne(ctx, consultation); err != nil {
		config.ErrorStatus("failed to insert consultation", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, consultation)
}

// ListHandler returns every consultation request, newest first
func (c Consultation) ListHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	consultations, err := c.DB.Find(ctx, bson.M{}, databases.NewestFirst("created_at", 0))
	if err != nil {
		config.ErrorStatus("failed to get consultations", http.StatusInternalServerError, w, err)
		return
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	writeJSON(w, http.StatusOK, consultations)
}

func (c Consultation) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}
