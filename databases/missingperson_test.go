package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sajhasahayog/relief-api/databases"
	"github.com/sajhasahayog/relief-api/databases/mocks"
	"github.com/sajhasahayog/relief-api/models"
)

func TestMissingPersonDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.MissingPerson)
		(*arg).Name = "Sita Tamang"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "missing_persons").Return(collectionHelper)

	missingDB := databases.NewMissingPersonDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	person, err := missingDB.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, person)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	// Now call the same function with different filter for correct result
	person, err = missingDB.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, "Sita Tamang", person.Name)
	assert.NoError(t, err)
}

func TestMissingPersonDatabase_Find(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.MissingPerson)
		*arg = []models.MissingPerson{{Name: "a"}, {Name: "b"}}
	})
	collectionHelper.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(cursorHelper, nil)
	dbHelper.On("Collection", "missing_persons").Return(collectionHelper)

	people, err := databases.NewMissingPersonDatabase(dbHelper).
		Find(context.Background(), bson.M{}, databases.NewestFirst("created_at", 0))

	assert.NoError(t, err)
	assert.Len(t, people, 2)
}

func TestMissingPersonDatabase_FindError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "missing_persons").Return(collectionHelper)

	people, err := databases.NewMissingPersonDatabase(dbHelper).Find(context.Background(), bson.M{})

	assert.Nil(t, people)
	assert.EqualError(t, err, "mocked-error")
}

func TestMissingPersonDatabase_UpdateOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	filter := bson.M{"dispatch_status": "pending"}
	update := bson.M{"$set": bson.M{"dispatch_status": "dispatched"}}
	collectionHelper.On("UpdateOne", mock.Anything, filter, update).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	dbHelper.On("Collection", "missing_persons").Return(collectionHelper)

	res, err := databases.NewMissingPersonDatabase(dbHelper).UpdateOne(context.Background(), filter, update)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
}
