package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportKind discriminates the two report variants
type ReportKind string

// Report kinds
const (
	KindMissing ReportKind = "missing"
	KindDamage  ReportKind = "damage"
)

// Valid reports whether k is one of the known report kinds
func (k ReportKind) Valid() bool {
	return k == KindMissing || k == KindDamage
}

// DispatchStatus is the lifecycle position of a report
type DispatchStatus string

// Dispatch statuses, in lifecycle order
const (
	StatusPending    DispatchStatus = "pending"
	StatusDispatched DispatchStatus = "dispatched"
	StatusInProgress DispatchStatus = "in_progress"
	StatusResolved   DispatchStatus = "resolved"
)

// DispatchStatuses lists every status in lifecycle order
var DispatchStatuses = []DispatchStatus{StatusPending, StatusDispatched, StatusInProgress, StatusResolved}

// Rank returns the position of s in the lifecycle, or -1 for an unknown status
func (s DispatchStatus) Rank() int {
	for i, v := range DispatchStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// ResolutionStatus is the missing-person view of the dispatch status
type ResolutionStatus string

// Resolution statuses
const (
	ResolutionActive ResolutionStatus = "active"
	ResolutionFound  ResolutionStatus = "found"
)

// Dispatch holds the admin-managed fields shared by both report variants.
// dispatch_status is the single stored source of truth for resolution.
type Dispatch struct {
	Status    DispatchStatus `json:"dispatch_status" bson:"dispatch_status"`
	Team      *TeamID        `json:"dispatched_team" bson:"dispatched_team"`
	Note      *string        `json:"dispatch_note" bson:"dispatch_note"`
	UpdatedAt *time.Time     `json:"dispatch_updated_at,omitempty" bson:"dispatch_updated_at,omitempty"`
}

// Resolved reports whether the report has reached the final status
func (d Dispatch) Resolved() bool {
	return d.Status == StatusResolved
}

// MissingPerson holds the structure for the missing_persons collection
type MissingPerson struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	LastSeenLocation    string             `json:"last_seen_location" bson:"last_seen_location"`
	Age                 int                `json:"age" bson:"age"`
	Gender              string             `json:"gender" bson:"gender"`
	IdentifyingFeatures string             `json:"identifying_features" bson:"identifying_features"`
	ReporterContact     string             `json:"reporter_contact" bson:"reporter_contact"`
	ImageURL            *string            `json:"image_url" bson:"image_url"`
	Latitude            float64            `json:"latitude" bson:"latitude"`
	Longitude           float64            `json:"longitude" bson:"longitude"`
	ReporterID          string             `json:"reporter_id" bson:"reporter_id"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	Dispatch            `bson:",inline"`
}

// ResolutionStatus is found once the report is resolved
func (m MissingPerson) ResolutionStatus() ResolutionStatus {
	if m.Resolved() {
		return ResolutionFound
	}
	return ResolutionActive
}

// ToReport converts the row into the unified report view
func (m MissingPerson) ToReport() Report {
	return Report{
		ID:               m.ID.Hex(),
		Type:             KindMissing,
		Title:            m.Name,
		Description:      m.LastSeenLocation,
		Time:             m.CreatedAt,
		Latitude:         m.Latitude,
		Longitude:        m.Longitude,
		ImageURL:         m.ImageURL,
		Verified:         m.Resolved(),
		ResolutionStatus: m.ResolutionStatus(),
		Status:           m.Status,
		DispatchedTeam:   m.Team,
		DispatchNote:     m.Note,
		ReporterID:       m.ReporterID,
	}
}

// DamageReport holds the structure for the damage_reports collection
type DamageReport struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Location      string             `json:"location" bson:"location"`
	Description   string             `json:"description" bson:"description"`
	ImageURL      *string            `json:"image_url" bson:"image_url"`
	Latitude      float64            `json:"latitude" bson:"latitude"`
	Longitude     float64            `json:"longitude" bson:"longitude"`
	HasCasualties bool               `json:"has_casualties" bson:"has_casualties"`
	ReporterID    string             `json:"reporter_id" bson:"reporter_id"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	Dispatch      `bson:",inline"`
}

// Verified is true once the report is resolved
func (d DamageReport) Verified() bool {
	return d.Resolved()
}

// ToReport converts the row into the unified report view
func (d DamageReport) ToReport() Report {
	return Report{
		ID:             d.ID.Hex(),
		Type:           KindDamage,
		Title:          d.Location,
		Description:    d.Description,
		Time:           d.CreatedAt,
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		ImageURL:       d.ImageURL,
		Critical:       d.HasCasualties,
		Verified:       d.Verified(),
		Status:         d.Status,
		DispatchedTeam: d.Team,
		DispatchNote:   d.Note,
		ReporterID:     d.ReporterID,
	}
}

// Report is the kind-independent view used by the dashboard, map, gallery and exports
type Report struct {
	ID               string           `json:"id"`
	Type             ReportKind       `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Time             time.Time        `json:"time"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	ImageURL         *string          `json:"imageUrl"`
	Critical         bool             `json:"critical"`
	Verified         bool             `json:"verified"`
	ResolutionStatus ResolutionStatus `json:"resolutionStatus,omitempty"`
	Status           DispatchStatus   `json:"status"`
	DispatchedTeam   *TeamID          `json:"dispatchedTeam"`
	DispatchNote     *string          `json:"dispatchNote"`
	ReporterID       string           `json:"reporterId,omitempty"`
}

// IsCritical reports whether the report counts toward the critical-hazard counter
func (r Report) IsCritical() bool {
	return r.Type == KindDamage && r.Critical && r.Status != StatusResolved
}

// HasImage reports whether the report belongs in the photo gallery
func (r Report) HasImage() bool {
	return r.ImageURL != nil && *r.ImageURL != ""
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLineEndings rewrites CR-LF and lone CR line breaks as LF
func NormalizeLineEndings(s string) string {
	return lineEndings.Replace(s)
}
