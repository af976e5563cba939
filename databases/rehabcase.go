package databases

// go generate: mockery --name RehabCaseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajhasahayog/relief-api/models"
)

const rehabCaseName = "rehab_cases"

// RehabCaseDatabase contains the methods to use with the rehab case database
type RehabCaseDatabase interface {
	FindOne(context.Context, interface{}) (*models.RehabCase, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.RehabCase, error)
	InsertOne(context.Context, models.RehabCase) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}) (*mongo.UpdateResult, error)
}

type rehabCaseDatabase struct {
	db DatabaseHelper
}

// NewRehabCaseDatabase initializes a new instance of rehab case database with the provided db connection
func NewRehabCaseDatabase(db DatabaseHelper) RehabCaseDatabase {
	return &rehabCaseDatabase{
		db: db,
	}
}

func (r *rehabCaseDatabase) FindOne(ctx context.Context, filter interface{}) (*models.RehabCase, error) {
	rc := &models.RehabCase{}
	err := r.db.Collection(rehabCaseName).FindOne(ctx, filter).Decode(&rc)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *rehabCaseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RehabCase, error) {
	var cases []models.RehabCase
	cr, err := r.db.Collection(rehabCaseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *rehabCaseDatabase) InsertOne(ctx context.Context, rc models.RehabCase) (InsertOneResultHelper, error) {
	return r.db.Collection(rehabCaseName).InsertOne(ctx, rc)
}

func (r *rehabCaseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return r.db.Collection(rehabCaseName).UpdateOne(ctx, filter, update)
}
