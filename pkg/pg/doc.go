// Package pg connects to PostgreSQL with pgx and applies goose migrations.
//
// Connect builds a pgxpool.Pool from Config (PG_* environment variables) and
// retries the first ping with a linear backoff. Migrate runs every pending
// migration from an fs.FS, usually an embed.FS owned by the store package:
//
//	pool, err := pg.Connect(ctx, cfg.Postgres)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg.Postgres, log); err != nil {
//		return err
//	}
//
// IsNotFoundError and IsSerializationError classify driver errors.
package pg
