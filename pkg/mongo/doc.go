// Package mongo connects to MongoDB with the v2 driver.
//
// Connect applies Config (MONGODB_* environment variables) and retries the
// initial ping. ConnectDatabase returns the configured database handle.
// Healthcheck returns a probe for the readiness endpoint.
//
//	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
