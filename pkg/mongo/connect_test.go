package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantq/pkg/mongo"
)

func TestConnect_ConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := mongo.Connect(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.Connect(context.Background(), mongo.Config{ConnectionURL: "not-a-mongo-uri"})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)

	_, err = mongo.ConnectDatabase(context.Background(), mongo.Config{ConnectionURL: "mongodb://localhost"})
	assert.ErrorIs(t, err, mongo.ErrEmptyDatabase)
}
