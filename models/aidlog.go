package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AidLog holds the structure for the aid_distribution_logs collection.
// Rows are append-only.
type AidLog struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RehabCaseID   *primitive.ObjectID `json:"rehab_case_id" bson:"rehab_case_id"`
	ItemType      ItemID              `json:"item_type" bson:"item_type"`
	Quantity      int                 `json:"quantity" bson:"quantity"`
	Unit          UnitID              `json:"unit" bson:"unit"`
	DeliveredBy   string              `json:"delivered_by" bson:"delivered_by"`
	DeliveredTo   string              `json:"delivered_to" bson:"delivered_to"`
	Location      *string             `json:"location" bson:"location"`
	Ward          *string             `json:"ward" bson:"ward"`
	ProofImageURL *string             `json:"proof_image_url" bson:"proof_image_url"`
	Notes         *string             `json:"notes" bson:"notes"`
	DeliveredAt   time.Time           `json:"delivered_at" bson:"delivered_at"`
}

// AidTotal is the summed quantity delivered for one item and unit
type AidTotal struct {
	ItemType ItemID `json:"item_type"`
	Unit     UnitID `json:"unit"`
	Quantity int    `json:"quantity"`
	Count    int    `json:"count"`
}
