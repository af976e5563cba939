// Package aid records relief deliveries and sums them per item.
package aid

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/storage"
	"github.com/sajhasahayog/relief-api/validation"
)

// LogInput is the aid delivery form. Unit defaults to pieces.
type LogInput struct {
	ItemType    models.ItemID `json:"item_type" validate:"required,item"`
	Quantity    int           `json:"quantity" validate:"gt=0"`
	Unit        models.UnitID `json:"unit" validate:"omitempty,unit"`
	DeliveredBy string        `json:"delivered_by" validate:"required"`
	DeliveredTo string        `json:"delivered_to" validate:"required"`
	RehabCaseID string        `json:"rehab_case_id"`
	Location    string        `json:"location"`
	Ward        string        `json:"ward"`
	Notes       string        `json:"notes"`
}

// Service appends aid logs
type Service struct {
	Logs   databases.AidLogDatabase
	Cases  databases.RehabCaseDatabase
	Photos storage.PhotoUploader
	Events events.Publisher
	Now    func() time.Time
}

// Log stores one delivery. A proof photo that fails to upload is dropped and the log is
// still written.
func (s *Service) Log(ctx context.Context, in LogInput, proof *storage.Photo) (*models.AidLog, error) {
	in.DeliveredBy = strings.TrimSpace(in.DeliveredBy)
	in.DeliveredTo = strings.TrimSpace(in.DeliveredTo)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	caseID, err := s.linkedCase(ctx, in.RehabCaseID)
	if err != nil {
		return nil, err
	}

	unit := in.Unit
	if unit == "" {
		unit = models.UnitPieces
	}
	log := models.AidLog{
		ID:            primitive.NewObjectID(),
		RehabCaseID:   caseID,
		ItemType:      in.ItemType,
		Quantity:      in.Quantity,
		Unit:          unit,
		DeliveredBy:   in.DeliveredBy,
		DeliveredTo:   in.DeliveredTo,
		Location:      optional(in.Location),
		Ward:          optional(in.Ward),
		ProofImageURL: s.uploadProof(ctx, proof),
		Notes:         optional(in.Notes),
		DeliveredAt:   s.now(),
	}
	if _, err := s.Logs.InsertOne(ctx, log); err != nil {
		return nil, errors.Wrap(err, "failed to insert aid log")
	}

	if s.Events != nil {
		s.Events.Publish(events.Event{Kind: events.AidLogged, AidLog: &log})
	}
	return &log, nil
}

// List returns every aid log, most recent delivery first
func (s *Service) List(ctx context.Context) ([]models.AidLog, error) {
	logs, err := s.Logs.Find(ctx, bson.M{}, databases.NewestFirst("delivered_at", 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find aid logs")
	}
	return logs, nil
}

func (s *Service) linkedCase(ctx context.Context, id string) (*primitive.ObjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validation.Invalid("rehab_case_id %q is not a rehab case id", id)
	}
	if _, err := s.Cases.FindOne(ctx, bson.M{"_id": oid}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, validation.Invalid("rehab_case_id %q does not match a rehab case", id)
		}
		return nil, errors.Wrap(err, "failed to find rehab case")
	}
	return &oid, nil
}

func (s *Service) uploadProof(ctx context.Context, proof *storage.Photo) *string {
	if proof == nil || s.Photos == nil {
		return nil
	}
	url, err := s.Photos.Upload(ctx, storage.AidProofPhoto, *proof)
	if err != nil {
		zap.S().Warnw("proof photo upload failed, logging delivery without it", "error", err)
		return nil
	}
	return &url
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Totals sums delivered quantities per item and unit, in item display order
func Totals(logs []models.AidLog) []models.AidTotal {
	type key struct {
		item models.ItemID
		unit models.UnitID
	}
	sums := map[key]*models.AidTotal{}
	for _, l := range logs {
		k := key{l.ItemType, l.Unit}
		t, ok := sums[k]
		if !ok {
			t = &models.AidTotal{ItemType: l.ItemType, Unit: l.Unit}
			sums[k] = t
		}
		t.Quantity += l.Quantity
		t.Count++
	}

	totals := make([]models.AidTotal, 0, len(sums))
	for _, t := range sums {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		a, b := rank(totals[i].ItemType, models.Items), rank(totals[j].ItemType, models.Items)
		if a != b {
			return a < b
		}
		return rank(totals[i].Unit, models.Units) < rank(totals[j].Unit, models.Units)
	})
	return totals
}

func rank[T comparable](v T, order []T) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return len(order)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
