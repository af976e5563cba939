package aid_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sajhasahayog/relief-api/aid"
	"github.com/sajhasahayog/relief-api/databases/mocks"
	"github.com/sajhasahayog/relief-api/events"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/storage"
	storagemocks "github.com/sajhasahayog/relief-api/storage/mocks"
	"github.com/sajhasahayog/relief-api/validation"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) { r.events = append(r.events, e) }

var fixedNow = time.Date(2025, 5, 3, 14, 0, 0, 0, time.UTC)

func newService() (*aid.Service, *mocks.AidLogDatabase, *mocks.RehabCaseDatabase, *storagemocks.PhotoUploader, *recorder) {
	logs := &mocks.AidLogDatabase{}
	cases := &mocks.RehabCaseDatabase{}
	photos := &storagemocks.PhotoUploader{}
	rec := &recorder{}
	return &aid.Service{
		Logs:   logs,
		Cases:  cases,
		Photos: photos,
		Events: rec,
		Now:    func() time.Time { return fixedNow },
	}, logs, cases, photos, rec
}

func riceInput() aid.LogInput {
	return aid.LogInput{
		ItemType:    models.ItemRice,
		Quantity:    50,
		Unit:        models.UnitKg,
		DeliveredBy: "Ward 4 office",
		DeliveredTo: "Tamang household",
	}
}

func TestLogRiceWithoutProof(t *testing.T) {
	s, logs, _, photos, rec := newService()

	var inserted models.AidLog
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.AidLog) })

	l, err := s.Log(context.Background(), riceInput(), nil)
	require.NoError(t, err)

	photos.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	assert.Nil(t, inserted.ProofImageURL)
	assert.Nil(t, inserted.RehabCaseID)
	assert.Equal(t, models.ItemRice, inserted.ItemType)
	assert.Equal(t, 50, inserted.Quantity)
	assert.Equal(t, models.UnitKg, inserted.Unit)
	assert.Equal(t, fixedNow, inserted.DeliveredAt)
	assert.Equal(t, inserted, *l)

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.AidLogged, rec.events[0].Kind)
}

func TestLogProofUploadFailureIsSwallowed(t *testing.T) {
	s, logs, _, photos, _ := newService()

	photos.On("Upload", mock.Anything, storage.AidProofPhoto, mock.Anything).Return("", errors.New("bucket down"))
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	l, err := s.Log(context.Background(), riceInput(), &storage.Photo{Filename: "proof.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Nil(t, l.ProofImageURL)
	logs.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestLogWithProofAndCase(t *testing.T) {
	s, logs, cases, photos, _ := newService()
	cid := primitive.NewObjectID()

	cases.On("FindOne", mock.Anything, bson.M{"_id": cid}).Return(&models.RehabCase{ID: cid}, nil)
	photos.On("Upload", mock.Anything, storage.AidProofPhoto, mock.Anything).Return("https://cdn.example/aid-proofs/a.jpg", nil)
	logs.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	in := riceInput()
	in.Unit = ""
	in.RehabCaseID = cid.Hex()
	in.Ward = "4"
	l, err := s.Log(context.Background(), in, &storage.Photo{Filename: "proof.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)

	assert.Equal(t, models.UnitPieces, l.Unit)
	require.NotNil(t, l.RehabCaseID)
	assert.Equal(t, cid, *l.RehabCaseID)
	assert.Equal(t, "https://cdn.example/aid-proofs/a.jpg", *l.ProofImageURL)
	assert.Equal(t, "4", *l.Ward)
	assert.Nil(t, l.Location)
}

func TestLogUnknownCase(t *testing.T) {
	s, logs, cases, _, _ := newService()

	cases.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	in := riceInput()
	in.RehabCaseID = primitive.NewObjectID().Hex()
	_, err := s.Log(context.Background(), in, nil)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	in.RehabCaseID = "abc"
	_, err = s.Log(context.Background(), in, nil)
	assert.ErrorIs(t, err, validation.ErrInvalid)

	logs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestLogValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*aid.LogInput)
	}{
		{"zero quantity", func(in *aid.LogInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *aid.LogInput) { in.Quantity = -5 }},
		{"missing item", func(in *aid.LogInput) { in.ItemType = "" }},
		{"unknown item", func(in *aid.LogInput) { in.ItemType = "gold" }},
		{"unknown unit", func(in *aid.LogInput) { in.Unit = "tons" }},
		{"blank delivered by", func(in *aid.LogInput) { in.DeliveredBy = "   " }},
		{"missing delivered to", func(in *aid.LogInput) { in.DeliveredTo = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, logs, _, _, _ := newService()
			in := riceInput()
			tt.mutate(&in)

			_, err := s.Log(context.Background(), in, nil)

			assert.ErrorIs(t, err, validation.ErrInvalid)
			logs.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}

func TestLogInsertError(t *testing.T) {
	s, logs, _, _, rec := newService()

	logs.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	_, err := s.Log(context.Background(), riceInput(), nil)
	assert.ErrorContains(t, err, "mocked-error")
	assert.Empty(t, rec.events)
}

func TestList(t *testing.T) {
	s, logs, _, _, _ := newService()

	logs.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.AidLog{{Quantity: 1}}, nil)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTotals(t *testing.T) {
	logs := []models.AidLog{
		{ItemType: models.ItemWater, Quantity: 200, Unit: models.UnitLiters},
		{ItemType: models.ItemRice, Quantity: 50, Unit: models.UnitKg},
		{ItemType: models.ItemRice, Quantity: 25, Unit: models.UnitKg},
		{ItemType: models.ItemRice, Quantity: 10, Unit: models.UnitPackets},
	}

	totals := aid.Totals(logs)

	assert.Equal(t, []models.AidTotal{
		{ItemType: models.ItemRice, Unit: models.UnitKg, Quantity: 75, Count: 2},
		{ItemType: models.ItemRice, Unit: models.UnitPackets, Quantity: 10, Count: 1},
		{ItemType: models.ItemWater, Unit: models.UnitLiters, Quantity: 200, Count: 1},
	}, totals)
	assert.Empty(t, aid.Totals(nil))
}
