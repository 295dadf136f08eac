// Package pg bootstraps the PostgreSQL layer behind the engine's persistent
// stores: a pgx/v5 connection pool with retrying Connect, goose schema
// migrations, a health-check probe, and shared error helpers.
//
// Config fields are populated from environment variables via
// github.com/caarlos0/env. A typical service start:
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	store, err := twofactor.NewPostgresStore(pool)
//
// The repository ships its goose migrations in the migrations/ directory,
// which is also the Config default.
package pg
