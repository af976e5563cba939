package rehab_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sajhasahayog/relief-api/databases/mocks"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/lifecycle"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/rehab"
	"github.com/sajhasahayog/relief-api/validation"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) { r.events = append(r.events, e) }

var fixedNow = time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)

func newService() (*rehab.Service, *mocks.RehabCaseDatabase, *mocks.DamageReportDatabase, *recorder) {
	cases := &mocks.RehabCaseDatabase{}
	damage := &mocks.DamageReportDatabase{}
	rec := &recorder{}
	return &rehab.Service{
		Cases:  cases,
		Damage: damage,
		Events: rec,
		Now:    func() time.Time { return fixedNow },
	}, cases, damage, rec
}

func resolvedReport(id primitive.ObjectID) *models.DamageReport {
	army := models.TeamArmy
	return &models.DamageReport{
		ID: id, Location: "Landslide, Sindhupalchok", Latitude: 27.95, Longitude: 85.69,
		Dispatch: models.Dispatch{Status: models.StatusResolved, Team: &army},
	}
}

func TestCreateDefaultsFromResolvedReport(t *testing.T) {
	s, cases, damage, rec := newService()
	did := primitive.NewObjectID()

	damage.On("FindOne", mock.Anything, bson.M{"_id": did}).Return(resolvedReport(did), nil)
	var inserted models.RehabCase
	cases.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.RehabCase) })

	rc, err := s.Create(context.Background(), did.Hex(), rehab.CreateInput{
		Needs:       []models.NeedID{models.NeedTempShelter, models.NeedFoodSupport, models.NeedTempShelter},
		AssignedOrg: "Red Cross Nepal",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RehabOpen, inserted.Status)
	assert.Equal(t, models.PriorityMedium, inserted.Priority)
	assert.Equal(t, []models.NeedID{models.NeedTempShelter, models.NeedFoodSupport}, inserted.Needs)
	assert.Equal(t, did, inserted.DamageReportID)
	require.NotNil(t, inserted.Location)
	assert.Equal(t, "Landslide, Sindhupalchok", *inserted.Location)
	assert.Equal(t, 27.95, *inserted.Latitude)
	assert.Equal(t, "Red Cross Nepal", *inserted.AssignedOrg)
	assert.Nil(t, inserted.Notes)
	assert.Equal(t, fixedNow, inserted.CreatedAt)

	assert.Equal(t, "Landslide, Sindhupalchok", rc.DamageReportTitle)
	require.Len(t, rec.events, 1)
	assert.Equal(t, events.RehabCreated, rec.events[0].Kind)
}

func TestCreateRejectsEmptyNeeds(t *testing.T) {
	s, cases, damage, rec := newService()

	_, err := s.Create(context.Background(), primitive.NewObjectID().Hex(), rehab.CreateInput{})

	assert.ErrorIs(t, err, validation.ErrInvalid)
	damage.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	cases.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	assert.Empty(t, rec.events)

	_, err = s.Create(context.Background(), primitive.NewObjectID().Hex(), rehab.CreateInput{Needs: []models.NeedID{}})
	assert.ErrorIs(t, err, validation.ErrInvalid)
	cases.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCreateRejectsUnknownNeedAndPriority(t *testing.T) {
	s, cases, _, _ := newService()

	_, err := s.Create(context.Background(), primitive.NewObjectID().Hex(),
		rehab.CreateInput{Needs: []models.NeedID{"helicopter"}})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = s.Create(context.Background(), primitive.NewObjectID().Hex(),
		rehab.CreateInput{Needs: []models.NeedID{models.NeedRoadRepair}, Priority: "urgent"})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	cases.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCreateRequiresResolvedReport(t *testing.T) {
	s, cases, damage, _ := newService()
	did := primitive.NewObjectID()

	damage.On("FindOne", mock.Anything, mock.Anything).Return(&models.DamageReport{
		ID: did, Dispatch: models.Dispatch{Status: models.StatusPending},
	}, nil)

	_, err := s.Create(context.Background(), did.Hex(), rehab.CreateInput{Needs: []models.NeedID{models.NeedHouseRepair}})

	assert.ErrorIs(t, err, models.ErrConflict)
	cases.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCreateMissingReport(t *testing.T) {
	s, _, damage, _ := newService()

	damage.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := s.Create(context.Background(), primitive.NewObjectID().Hex(), rehab.CreateInput{Needs: []models.NeedID{models.NeedHouseRepair}})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateKeepsExplicitFields(t *testing.T) {
	s, cases, damage, _ := newService()
	did := primitive.NewObjectID()
	lat, lng := 28.0, 84.6
	target := fixedNow.AddDate(0, 1, 0)

	damage.On("FindOne", mock.Anything, mock.Anything).Return(resolvedReport(did), nil)
	var inserted models.RehabCase
	cases.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.RehabCase) })

	_, err := s.Create(context.Background(), did.Hex(), rehab.CreateInput{
		Needs:      []models.NeedID{models.NeedSchoolRestoration},
		Priority:   models.PriorityHigh,
		Location:   "Gorkha school",
		Latitude:   &lat,
		Longitude:  &lng,
		TargetDate: &target,
		Notes:      "roof gone",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityHigh, inserted.Priority)
	assert.Equal(t, "Gorkha school", *inserted.Location)
	assert.Equal(t, 28.0, *inserted.Latitude)
	assert.Equal(t, 84.6, *inserted.Longitude)
	assert.Equal(t, target, *inserted.TargetDate)
	assert.Equal(t, "roof gone", *inserted.Notes)
}

func TestAdvanceOneStep(t *testing.T) {
	s, cases, _, rec := newService()
	cid := primitive.NewObjectID()

	cases.On("FindOne", mock.Anything, bson.M{"_id": cid}).Return(&models.RehabCase{ID: cid, Status: models.RehabOpen}, nil)
	cases.On("UpdateOne", mock.Anything, bson.M{"_id": cid, "status": models.RehabOpen}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	rc, err := s.Advance(context.Background(), cid.Hex(), models.RehabInProgress)
	require.NoError(t, err)

	assert.Equal(t, models.RehabInProgress, rc.Status)
	assert.Equal(t, fixedNow, rc.UpdatedAt)
	require.Len(t, rec.events, 1)
	assert.Equal(t, events.RehabAdvanced, rec.events[0].Kind)
}

func TestAdvanceRefusesSkipsAndRegressions(t *testing.T) {
	s, cases, _, _ := newService()

	cases.On("FindOne", mock.Anything, mock.Anything).Return(&models.RehabCase{Status: models.RehabOpen}, nil).Once()
	_, err := s.Advance(context.Background(), primitive.NewObjectID().Hex(), models.RehabCompleted)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	cases.On("FindOne", mock.Anything, mock.Anything).Return(&models.RehabCase{Status: models.RehabCompleted}, nil).Once()
	_, err = s.Advance(context.Background(), primitive.NewObjectID().Hex(), models.RehabInProgress)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	cases.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceLostRace(t *testing.T) {
	s, cases, _, rec := newService()

	cases.On("FindOne", mock.Anything, mock.Anything).Return(&models.RehabCase{Status: models.RehabInProgress}, nil)
	cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)

	_, err := s.Advance(context.Background(), primitive.NewObjectID().Hex(), models.RehabCompleted)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Empty(t, rec.events)
}

func TestAdvanceNotFound(t *testing.T) {
	s, cases, _, _ := newService()

	cases.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := s.Advance(context.Background(), primitive.NewObjectID().Hex(), models.RehabInProgress)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.Advance(context.Background(), "nope", models.RehabInProgress)
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestListAnnotatesTitles(t *testing.T) {
	s, cases, damage, _ := newService()
	known, gone := primitive.NewObjectID(), primitive.NewObjectID()

	cases.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.RehabCase{
		{DamageReportID: known, Status: models.RehabOpen},
		{DamageReportID: gone, Status: models.RehabCompleted},
		{DamageReportID: known, Status: models.RehabInProgress},
	}, nil)
	damage.On("Find", mock.Anything, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{known, gone}}}).
		Return([]models.DamageReport{{ID: known, Location: "Flood, Saptari"}}, nil)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Flood, Saptari", list[0].DamageReportTitle)
	assert.Equal(t, rehab.UnknownReportTitle, list[1].DamageReportTitle)
	assert.Equal(t, "Flood, Saptari", list[2].DamageReportTitle)

	assert.Equal(t, models.RehabStats{Open: 1, InProgress: 1, Completed: 1}, rehab.Stats(list))
}

func TestListError(t *testing.T) {
	s, cases, _, _ := newService()

	cases.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	_, err := s.List(context.Background())
	assert.ErrorContains(t, err, "mocked-error")
}

func TestOverdue(t *testing.T) {
	s, cases, damage, _ := newService()
	past, future := fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour)

	cases.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.RehabCase{
		{Status: models.RehabOpen, TargetDate: &past},
		{Status: models.RehabInProgress, TargetDate: &future},
	}, nil)
	damage.On("Find", mock.Anything, mock.Anything).Return([]models.DamageReport{}, nil)

	overdue, err := s.Overdue(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past, *overdue[0].TargetDate)
}
