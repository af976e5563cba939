package databases

// go generate: mockery --name MissingPersonDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajhasahayog/relief-api/models"
)

const missingPersonName = "missing_persons"

// MissingPersonDatabase contains the methods to use with the missing person database
type MissingPersonDatabase interface {
	FindOne(context.Context, interface{}) (*models.MissingPerson, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.MissingPerson, error)
	InsertOne(context.Context, models.MissingPerson) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}) (*mongo.UpdateResult, error)
}

type missingPersonDatabase struct {
	db DatabaseHelper
}

// NewMissingPersonDatabase initializes a new instance of missing person database with the provided db connection
func NewMissingPersonDatabase(db DatabaseHelper) MissingPersonDatabase {
	return &missingPersonDatabase{
		db: db,
	}
}

func (m *missingPersonDatabase) FindOne(ctx context.Context, filter interface{}) (*models.MissingPerson, error) {
	person := &models.MissingPerson{}
	err := m.db.Collection(missingPersonName).FindOne(ctx, filter).Decode(&person)
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (m *missingPersonDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MissingPerson, error) {
	var people []models.MissingPerson
	cr, err := m.db.Collection(missingPersonName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&people)
	if err != nil {
		return nil, err
	}
	return people, nil
}

func (m *missingPersonDatabase) InsertOne(ctx context.Context, person models.MissingPerson) (InsertOneResultHelper, error) {
	return m.db.Collection(missingPersonName).InsertOne(ctx, person)
}

func (m *missingPersonDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return m.db.Collection(missingPersonName).UpdateOne(ctx, filter, update)
}
