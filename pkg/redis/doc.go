// Package redis connects to Redis with go-redis.
//
// Connect retries the initial ping according to Config, which is read from
// REDIS_* environment variables. Healthcheck returns a probe for the
// readiness endpoint. Errors are sentinels joined with the driver error.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
