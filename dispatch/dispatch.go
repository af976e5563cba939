// Package dispatch moves reports through pending, dispatched, in_progress and resolved.
package dispatch

import (
	"context"
	"sort"
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

// DispatchInput selects the team and an optional note
type DispatchInput struct {
	Team models.TeamID `json:"team" validate:"required,team"`
	Note string        `json:"note" validate:"max=2000"`
}

// Service applies admin transitions to reports of either kind
type Service struct {
	Missing databases.MissingPersonDatabase
	Damage  databases.DamageReportDatabase
	Events  events.Publisher
	Now     func() time.Time
}

// record is one loaded report with the means to write it back
type record struct {
	dispatch models.Dispatch
	view     func(models.Dispatch) models.Report
	update   func(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
}

// Dispatch assigns a team to a pending report
func (s *Service) Dispatch(ctx context.Context, kind models.ReportKind, id string, in DispatchInput) (*models.Report, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.transition(ctx, kind, id, func(d *models.Dispatch) (bson.M, error) {
		if err := lifecycle.Dispatch(d, in.Team, in.Note); err != nil {
			return nil, err
		}
		return bson.M{"dispatched_team": d.Team, "dispatch_note": d.Note}, nil
	})
}

// MarkInProgress records that the dispatched team has started work
func (s *Service) MarkInProgress(ctx context.Context, kind models.ReportKind, id string) (*models.Report, error) {
	return s.transition(ctx, kind, id, func(d *models.Dispatch) (bson.M, error) {
		return bson.M{}, lifecycle.Apply(d, lifecycle.ActionStart)
	})
}

// MarkResolved closes a dispatched or in-progress report. Found and verified follow from it.
func (s *Service) MarkResolved(ctx context.Context, kind models.ReportKind, id string) (*models.Report, error) {
	return s.transition(ctx, kind, id, func(d *models.Dispatch) (bson.M, error) {
		return bson.M{}, lifecycle.Apply(d, lifecycle.ActionResolve)
	})
}

// Get loads one report
func (s *Service) Get(ctx context.Context, kind models.ReportKind, id string) (*models.Report, error) {
	rec, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	r := rec.view(rec.dispatch)
	return &r, nil
}

// List returns every report of both kinds, newest first
func (s *Service) List(ctx context.Context) ([]models.Report, error) {
	people, err := s.Missing.Find(ctx, bson.M{}, databases.NewestFirst("created_at", 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find missing persons")
	}
	damage, err := s.Damage.Find(ctx, bson.M{}, databases.NewestFirst("created_at", 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find damage reports")
	}

	reports := make([]models.Report, 0, len(people)+len(damage))
	for _, p := range people {
		reports = append(reports, p.ToReport())
	}
	for _, d := range damage {
		reports = append(reports, d.ToReport())
	}
	SortNewestFirst(reports)
	return reports, nil
}

// SortNewestFirst orders reports by submission time, latest first
func SortNewestFirst(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Time.After(reports[j].Time)
	})
}

// transition loads the report, applies mutate in memory and writes the result back only
// if the stored status is still the one that was read
func (s *Service) transition(ctx context.Context, kind models.ReportKind, id string, mutate func(*models.Dispatch) (bson.M, error)) (*models.Report, error) {
	rec, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	from := rec.dispatch.Status
	next := rec.dispatch
	set, err := mutate(&next)
	if err != nil {
		return nil, err
	}
	now := s.now()
	next.UpdatedAt = &now
	set["dispatch_status"] = next.Status
	set["dispatch_updated_at"] = now

	oid, _ := primitive.ObjectIDFromHex(id)
	res, err := rec.update(ctx, bson.M{"_id": oid, "dispatch_status": from}, bson.M{"$set": set})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update %s report", kind)
	}
	if res.MatchedCount == 0 {
		return nil, errors.Wrapf(models.ErrConflict, "report %s is no longer %s", id, from)
	}

	r := rec.view(next)
	if s.Events != nil {
		s.Events.Publish(events.Event{Kind: events.ReportEvent(r.Status), At: now, Report: &r})
	}
	return &r, nil
}

func (s *Service) load(ctx context.Context, kind models.ReportKind, id string) (*record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validation.Invalid("%q is not a report id", id)
	}
	filter := bson.M{"_id": oid}

	switch kind {
	case models.KindMissing:
		p, err := s.Missing.FindOne(ctx, filter)
		if err != nil {
			return nil, notFound(err, kind, id)
		}
		return &record{
			dispatch: p.Dispatch,
			view: func(d models.Dispatch) models.Report {
				cp := *p
				cp.Dispatch = d
				return cp.ToReport()
			},
			update: s.Missing.UpdateOne,
		}, nil
	case models.KindDamage:
		dr, err := s.Damage.FindOne(ctx, filter)
		if err != nil {
			return nil, notFound(err, kind, id)
		}
		return &record{
			dispatch: dr.Dispatch,
			view: func(d models.Dispatch) models.Report {
				cp := *dr
				cp.Dispatch = d
				return cp.ToReport()
			},
			update: s.Damage.UpdateOne,
		}, nil
	default:
		return nil, errors.Wrapf(models.ErrNotFound, "unknown report kind %q", kind)
	}
}

func notFound(err error, kind models.ReportKind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.Wrapf(models.ErrNotFound, "%s report %s", kind, id)
	}
	return errors.Wrapf(err, "failed to find %s report %s", kind, id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
