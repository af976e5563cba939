package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewestFirst sorts descending on field, optionally limiting the result set. A limit of
// zero returns every document.
func NewestFirst(field string, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
