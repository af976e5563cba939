package databases

// go generate: mockery --name AidLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajhasahayog/relief-api/models"
)

const aidLogName = "aid_distribution_logs"

// AidLogDatabase contains the methods to use with the aid distribution log database.
// Logs are append-only, so there is no update or delete.
type AidLogDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.AidLog, error)
	InsertOne(context.Context, models.AidLog) (InsertOneResultHelper, error)
}

type aidLogDatabase struct {
	db DatabaseHelper
}

// NewAidLogDatabase initializes a new instance of aid log database with the provided db connection
func NewAidLogDatabase(db DatabaseHelper) AidLogDatabase {
	return &aidLogDatabase{
		db: db,
	}
}

func (a *aidLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AidLog, error) {
	var logs []models.AidLog
	cr, err := a.db.Collection(aidLogName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (a *aidLogDatabase) InsertOne(ctx context.Context, log models.AidLog) (InsertOneResultHelper, error) {
	return a.db.Collection(aidLogName).InsertOne(ctx, log)
}
