// Package db manages the PostgreSQL pool behind the Postgres storage backend.
//
// Connect parses Config, opens a pgx pool and pings it with retries.
// Migrate runs embedded goose migrations through a database/sql bridge over
// the same pool. Healthcheck and Shutdown plug into the application's
// readiness checks and shutdown hooks.
//
//	pool, err := db.Connect(ctx, cfg.Database, log)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, repository.Migrations, "migrations", cfg.Database.MigrationsTable, log); err != nil {
//		return err
//	}
package db
