package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantq/internal/usage"
	"github.com/dmitrymomot/tenantq/internal/usage/mongostore"
	"github.com/dmitrymomot/tenantq/pkg/mongo"
)

// Runs against a live deployment when TEST_MONGODB_URL is set.
func TestStore_Mongo(t *testing.T) {
	url := os.Getenv("TEST_MONGODB_URL")
	if url == "" {
		t.Skip("TEST_MONGODB_URL not set")
	}

	ctx := context.Background()
	db, err := mongo.ConnectDatabase(ctx, mongo.Config{
		ConnectionURL: url,
		Database:      "tenantq_test",
		RetryAttempts: 1,
	})
	require.NoError(t, err)

	collection := "usage_" + uuid.NewString()
	t.Cleanup(func() {
		_ = db.Collection(collection).Drop(ctx)
		_ = db.Client().Disconnect(ctx)
	})

	s := mongostore.New(db, collection)

	_, err = s.Get(ctx, "acme")
	assert.ErrorIs(t, err, usage.ErrRecordNotFound)

	now := time.Now().UTC().Truncate(time.Millisecond)
	rec := &usage.Record{TenantID: "acme", Used: 3, Limit: 10, PeriodStart: now, UpdatedAt: now}
	require.NoError(t, s.Save(ctx, rec))
	rec.Used = 4
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Save(ctx, &usage.Record{TenantID: "globex", PeriodStart: now, UpdatedAt: now}))

	got, err := s.Get(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].TenantID)
}
