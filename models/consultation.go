package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Consultation holds the structure for the expert_consultations collection
type Consultation struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Question    string             `json:"question" bson:"question"`
	ContactInfo string             `json:"contact_info" bson:"contact_info"`
	RequesterID string             `json:"requester_id,omitempty" bson:"requester_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
