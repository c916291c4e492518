// Package mongostore keeps usage records in a MongoDB collection, one
// document per tenant with the tenant id as _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tenantq/internal/usage"
)

const DefaultCollection = "tenant_usage"

// Store keeps one document per tenant, keyed by tenant id.
type Store struct {
	coll *mongo.Collection
}

var _ usage.Store = (*Store)(nil)

// New stores records in db.collection. An empty collection name selects
// DefaultCollection.
func New(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{coll: db.Collection(collection)}
}

type document struct {
	TenantID    string    `bson:"_id"`
	Used        int64     `bson:"used"`
	Limit       int64     `bson:"limit"`
	PeriodStart time.Time `bson:"period_start"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocument(rec *usage.Record) document {
	return document{
		TenantID:    rec.TenantID,
		Used:        rec.Used,
		Limit:       rec.Limit,
		PeriodStart: rec.PeriodStart.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}

func (d document) record() usage.Record {
	return usage.Record{
		TenantID:    d.TenantID,
		Used:        d.Used,
		Limit:       d.Limit,
		PeriodStart: d.PeriodStart.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (s *Store) Get(ctx context.Context, tenantID string) (*usage.Record, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: tenantID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, usage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: get %s: %w", tenantID, err)
	}
	rec := doc.record()
	return &rec, nil
}

// Save replaces the tenant's document, inserting it when missing.
func (s *Store) Save(ctx context.Context, rec *usage.Record) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: rec.TenantID}},
		toDocument(rec),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongostore: save %s: %w", rec.TenantID, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]usage.Record, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongostore: list: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: list: %w", err)
	}

	out := make([]usage.Record, len(docs))
	for i, d := range docs {
		out[i] = d.record()
	}
	return out, nil
}
