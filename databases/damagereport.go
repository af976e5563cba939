package databases

// go generate: mockery --name DamageReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajhasahayog/relief-api/models"
)

const damageReportName = "damage_reports"

// DamageReportDatabase contains the methods to use with the damage report database
type DamageReportDatabase interface {
	FindOne(context.Context, interface{}) (*models.DamageReport, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.DamageReport, error)
	InsertOne(context.Context, models.DamageReport) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}) (*mongo.UpdateResult, error)
}

type damageReportDatabase struct {
	db DatabaseHelper
}

// NewDamageReportDatabase initializes a new instance of damage report database with the provided db connection
func NewDamageReportDatabase(db DatabaseHelper) DamageReportDatabase {
	return &damageReportDatabase{
		db: db,
	}
}

func (d *damageReportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.DamageReport, error) {
	report := &models.DamageReport{}
	err := d.db.Collection(damageReportName).FindOne(ctx, filter).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (d *damageReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DamageReport, error) {
	var reports []models.DamageReport
	cr, err := d.db.Collection(damageReportName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&reports)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (d *damageReportDatabase) InsertOne(ctx context.Context, report models.DamageReport) (InsertOneResultHelper, error) {
	return d.db.Collection(damageReportName).InsertOne(ctx, report)
}

func (d *damageReportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return d.db.Collection(damageReportName).UpdateOne(ctx, filter, update)
}
