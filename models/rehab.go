package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RehabStatus is the lifecycle position of a rehabilitation case
type RehabStatus string

// Rehab statuses, in lifecycle order
const (
	RehabOpen       RehabStatus = "open"
	RehabInProgress RehabStatus = "in_progress"
	RehabCompleted  RehabStatus = "completed"
)

// RehabStatuses lists every rehab status in lifecycle order
var RehabStatuses = []RehabStatus{RehabOpen, RehabInProgress, RehabCompleted}

// Priority of a rehabilitation case
type Priority string

// Priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// RehabCase holds the structure for the rehab_cases collection
type RehabCase struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DamageReportID primitive.ObjectID `json:"damage_report_id" bson:"damage_report_id"`
	Needs          []NeedID           `json:"needs" bson:"needs"`
	Priority       Priority           `json:"priority" bson:"priority"`
	AssignedOrg    *string            `json:"assigned_org" bson:"assigned_org"`
	TargetDate     *time.Time         `json:"target_date" bson:"target_date"`
	Notes          *string            `json:"notes" bson:"notes"`
	Location       *string            `json:"location" bson:"location"`
	Latitude       *float64           `json:"latitude" bson:"latitude"`
	Longitude      *float64           `json:"longitude" bson:"longitude"`
	Status         RehabStatus        `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`

	// DamageReportTitle is filled in when listing, from the linked damage report
	DamageReportTitle string `json:"damage_report_title,omitempty" bson:"-"`
}

// Overdue reports whether the case has passed its target date without completing
func (c RehabCase) Overdue(now time.Time) bool {
	return c.TargetDate != nil && c.Status != RehabCompleted && c.TargetDate.Before(now)
}

// RehabStats counts rehab cases per status
type RehabStats struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}
