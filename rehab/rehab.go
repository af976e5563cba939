// Package rehab tracks recovery cases opened from resolved damage reports.
package rehab

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/lifecycle"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/validation"
)

// UnknownReportTitle labels a case whose damage report can no longer be found
const UnknownReportTitle = "Unknown"

// ErrReportNotResolved is returned when a case is opened from a damage report that is still being handled
var ErrReportNotResolved = errors.Wrap(models.ErrConflict, "damage report is not resolved")

// CreateInput is the rehab case form
type CreateInput struct {
	Needs       []models.NeedID `json:"needs" validate:"required,min=1,dive,need"`
	Priority    models.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedOrg string          `json:"assigned_org"`
	TargetDate  *time.Time      `json:"target_date"`
	Notes       string          `json:"notes"`
	Location    string          `json:"location"`
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
}

// Service manages rehab cases
type Service struct {
	Cases  databases.RehabCaseDatabase
	Damage databases.DamageReportDatabase
	Events events.Publisher
	Now    func() time.Time
}

// Create opens a case for a resolved damage report. Location and coordinates default to
// the report's own.
func (s *Service) Create(ctx context.Context, damageReportID string, in CreateInput) (*models.RehabCase, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(damageReportID)
	if err != nil {
		return nil, validation.Invalid("%q is not a report id", damageReportID)
	}
	report, err := s.Damage.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(models.ErrNotFound, "damage report %s", damageReportID)
		}
		return nil, errors.Wrap(err, "failed to find damage report")
	}
	if !report.Resolved() {
		return nil, ErrReportNotResolved
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := s.now()
	rc := models.RehabCase{
		ID:             primitive.NewObjectID(),
		DamageReportID: oid,
		Needs:          dedupe(in.Needs),
		Priority:       priority,
		AssignedOrg:    optional(in.AssignedOrg),
		TargetDate:     in.TargetDate,
		Notes:          optional(in.Notes),
		Location:       optional(in.Location),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Status:         models.RehabOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if rc.Location == nil {
		rc.Location = optional(report.Location)
	}
	if rc.Latitude == nil || rc.Longitude == nil {
		lat, lng := report.Latitude, report.Longitude
		rc.Latitude, rc.Longitude = &lat, &lng
	}

	if _, err := s.Cases.InsertOne(ctx, rc); err != nil {
		return nil, errors.Wrap(err, "failed to insert rehab case")
	}
	rc.DamageReportTitle = report.Location

	s.publish(events.RehabCreated, rc)
	return &rc, nil
}

// Advance moves a case one step forward to status to
func (s *Service) Advance(ctx context.Context, id string, to models.RehabStatus) (*models.RehabCase, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validation.Invalid("%q is not a rehab case id", id)
	}
	rc, err := s.Cases.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(models.ErrNotFound, "rehab case %s", id)
		}
		return nil, errors.Wrap(err, "failed to find rehab case")
	}

	from := rc.Status
	if err := lifecycle.NextRehab(from, to); err != nil {
		return nil, err
	}
	now := s.now()
	res, err := s.Cases.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": now}},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update rehab case")
	}
	if res.MatchedCount == 0 {
		return nil, errors.Wrapf(models.ErrConflict, "rehab case %s is no longer %s", id, from)
	}

	rc.Status = to
	rc.UpdatedAt = now
	s.publish(events.RehabAdvanced, *rc)
	return rc, nil
}

// List returns every case newest first, annotated with its damage report title
func (s *Service) List(ctx context.Context) ([]models.RehabCase, error) {
	cases, err := s.Cases.Find(ctx, bson.M{}, databases.NewestFirst("created_at", 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find rehab cases")
	}
	return s.annotate(ctx, cases)
}

// Overdue returns open and in-progress cases whose target date is before now
func (s *Service) Overdue(ctx context.Context, now time.Time) ([]models.RehabCase, error) {
	filter := bson.M{
		"status":      bson.M{"$ne": models.RehabCompleted},
		"target_date": bson.M{"$lt": now},
	}
	found, err := s.Cases.Find(ctx, filter, databases.NewestFirst("target_date", 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find overdue rehab cases")
	}
	cases := found[:0]
	for _, c := range found {
		if c.Overdue(now) {
			cases = append(cases, c)
		}
	}
	return s.annotate(ctx, cases)
}

// annotate fills DamageReportTitle with one lookup for all linked reports
func (s *Service) annotate(ctx context.Context, cases []models.RehabCase) ([]models.RehabCase, error) {
	if len(cases) == 0 {
		return cases, nil
	}
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(cases))
	for _, c := range cases {
		if !seen[c.DamageReportID] {
			seen[c.DamageReportID] = true
			ids = append(ids, c.DamageReportID)
		}
	}

	reports, err := s.Damage.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find linked damage reports")
	}
	titles := make(map[primitive.ObjectID]string, len(reports))
	for _, r := range reports {
		titles[r.ID] = r.Location
	}

	for i := range cases {
		title, ok := titles[cases[i].DamageReportID]
		if !ok {
			title = UnknownReportTitle
		}
		cases[i].DamageReportTitle = title
	}
	return cases, nil
}

func (s *Service) publish(kind events.Kind, rc models.RehabCase) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(events.Event{Kind: kind, RehabCase: &rc})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Stats counts cases per status
func Stats(cases []models.RehabCase) models.RehabStats {
	var st models.RehabStats
	for _, c := range cases {
		switch c.Status {
		case models.RehabOpen:
			st.Open++
		case models.RehabInProgress:
			st.InProgress++
		case models.RehabCompleted:
			st.Completed++
		}
	}
	return st
}

func dedupe(needs []models.NeedID) []models.NeedID {
	seen := make(map[models.NeedID]bool, len(needs))
	out := make([]models.NeedID, 0, len(needs))
	for _, n := range needs {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
