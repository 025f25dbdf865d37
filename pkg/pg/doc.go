// Package pg provides the PostgreSQL persistence layer for the
// authentication core: connection pooling, schema migrations, health
// checks, and the store implementations behind the auth package's
// UserStore, IdentityStore, and SessionStore interfaces.
//
// Connectivity is built on pgx/v5 and migrations on goose/v3. Config is
// populated from environment variables via github.com/caarlos0/env, so
// pool limits and migration paths are tuned per environment without code
// changes.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
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
//	users := pg.NewUserStore(pool)
//
// Store methods translate driver errors into the auth package's storage
// sentinels: pgx.ErrNoRows becomes auth.ErrNotFound and unique-constraint
// violations become auth.ErrConflict. Anything else passes through
// untranslated.
package pg
