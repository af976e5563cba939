package databases

// go generate: mockery --name ConsultationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajhasahayog/relief-api/models"
)

const consultationName = "expert_consultations"

// ConsultationDatabase contains the methods to use with the expert consultation database
type ConsultationDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Consultation, error)
	InsertOne(context.Context, models.Consultation) (InsertOneResultHelper, error)
}

type consultationDatabase struct {
	db DatabaseHelper
}

// NewConsultationDatabase initializes a new instance of consultation database with the provided db connection
func NewConsultationDatabase(db DatabaseHelper) ConsultationDatabase {
	return &consultationDatabase{
		db: db,
	}
}

func (c *consultationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Consultation, error) {
	var consultations []models.Consultation
	cr, err := c.db.Collection(consultationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&consultations)
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (c *consultationDatabase) InsertOne(ctx context.Context, consultation models.Consultation) (InsertOneResultHelper, error) {
	return c.db.Collection(consultationName).InsertOne(ctx, consultation)
}
