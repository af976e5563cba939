// Package intake turns citizen submissions into missing-person and damage report rows.
package intake

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/geo"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/storage"
	"github.com/sajhasahayog/relief-api/validation"
)

// ErrUploadFailed means the report photo could not be stored, so nothing was inserted
var ErrUploadFailed = errors.New("photo upload failed")

const (
	recentPerKind = 3
	recentTotal   = 5
)

// MissingPersonInput is the missing-person form
type MissingPersonInput struct {
	Name                string   `json:"name" validate:"required"`
	LastSeenLocation    string   `json:"last_seen_location" validate:"required"`
	Age                 int      `json:"age" validate:"gte=0,lte=130"`
	Gender              string   `json:"gender" validate:"required"`
	IdentifyingFeatures string   `json:"identifying_features" validate:"required"`
	ReporterContact     string   `json:"reporter_contact" validate:"required"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
}

// DamageReportInput is the damage/hazard form. Location holds the incident type or place.
type DamageReportInput struct {
	Location      string   `json:"location" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	HasCasualties bool     `json:"has_casualties"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (in *MissingPersonInput) normalize() {
	for _, f := range []*string{&in.Name, &in.LastSeenLocation, &in.Gender, &in.IdentifyingFeatures, &in.ReporterContact} {
		*f = models.NormalizeLineEndings(*f)
	}
}

func (in *DamageReportInput) normalize() {
	in.Location = models.NormalizeLineEndings(in.Location)
	in.Description = models.NormalizeLineEndings(in.Description)
}

// Service stores report submissions
type Service struct {
	Missing databases.MissingPersonDatabase
	Damage  databases.DamageReportDatabase
	Photos  storage.PhotoUploader
	Events  events.Publisher
	Now     func() time.Time
}

// SubmitMissingPerson uploads the optional photo and inserts a pending missing-person row
func (s *Service) SubmitMissingPerson(ctx context.Context, reporterID string, in MissingPersonInput, photo *storage.Photo) (*models.Report, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, storage.MissingPersonPhoto, photo)
	if err != nil {
		return nil, err
	}

	pin := geo.Resolve(in.Latitude, in.Longitude)
	person := models.MissingPerson{
		ID:                  primitive.NewObjectID(),
		Name:                in.Name,
		LastSeenLocation:    in.LastSeenLocation,
		Age:                 in.Age,
		Gender:              in.Gender,
		IdentifyingFeatures: in.IdentifyingFeatures,
		ReporterContact:     in.ReporterContact,
		ImageURL:            imageURL,
		Latitude:            pin.Latitude,
		Longitude:           pin.Longitude,
		ReporterID:          reporterID,
		CreatedAt:           s.now(),
		Dispatch:            models.Dispatch{Status: models.StatusPending},
	}
	if _, err := s.Missing.InsertOne(ctx, person); err != nil {
		return nil, errors.Wrap(err, "failed to insert missing person")
	}

	r := person.ToReport()
	s.publish(r)
	return &r, nil
}

// SubmitDamageReport uploads the optional photo and inserts a pending damage report row
func (s *Service) SubmitDamageReport(ctx context.Context, reporterID string, in DamageReportInput, photo *storage.Photo) (*models.Report, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, storage.DamageReportPhoto, photo)
	if err != nil {
		return nil, err
	}

	pin := geo.Resolve(in.Latitude, in.Longitude)
	report := models.DamageReport{
		ID:            primitive.NewObjectID(),
		Location:      in.Location,
		Description:   in.Description,
		ImageURL:      imageURL,
		Latitude:      pin.Latitude,
		Longitude:     pin.Longitude,
		HasCasualties: in.HasCasualties,
		ReporterID:    reporterID,
		CreatedAt:     s.now(),
		Dispatch:      models.Dispatch{Status: models.StatusPending},
	}
	if _, err := s.Damage.InsertOne(ctx, report); err != nil {
		return nil, errors.Wrap(err, "failed to insert damage report")
	}

	r := report.ToReport()
	s.publish(r)
	return &r, nil
}

// Recent returns the reporter's latest submissions across both kinds, newest first
func (s *Service) Recent(ctx context.Context, reporterID string) ([]models.Report, error) {
	filter := bson.M{"reporter_id": reporterID}

	people, err := s.Missing.Find(ctx, filter, databases.NewestFirst("created_at", recentPerKind))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find missing persons")
	}
	damage, err := s.Damage.Find(ctx, filter, databases.NewestFirst("created_at", recentPerKind))
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
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Time.After(reports[j].Time)
	})
	if len(reports) > recentTotal {
		reports = reports[:recentTotal]
	}
	return reports, nil
}

// upload failures abort the submission
func (s *Service) upload(ctx context.Context, dest storage.Destination, photo *storage.Photo) (*string, error) {
	if photo == nil {
		return nil, nil
	}
	url, err := s.Photos.Upload(ctx, dest, *photo)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return nil, validation.Invalid("image is not a readable photo")
		}
		zap.S().Errorw("report photo upload failed", "error", err)
		return nil, errors.Wrap(ErrUploadFailed, err.Error())
	}
	return &url, nil
}

func (s *Service) publish(r models.Report) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(events.Event{Kind: events.ReportSubmitted, Report: &r})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
