package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

func TestDocumentBSON(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := &usage.Record{TenantID: "acme", Used: 7, Limit: 10, PeriodStart: start, UpdatedAt: start.Add(time.Hour)}

	raw, err := bson.Marshal(toDocument(rec))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, "acme", fields["_id"])
	assert.Equal(t, int64(7), fields["used"])
	assert.Equal(t, int64(10), fields["limit"])

	var doc document
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, *rec, doc.record())
}
