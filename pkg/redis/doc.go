// Package redis connects the authentication core to its shared expiring
// token store.
//
// It wraps the go-redis client with:
//
//   - Connect, which retries the initial connection using the supplied
//     configuration so the service tolerates Redis starting after it.
//   - TokenCache, the auth.TokenCache implementation backing refresh-token
//     revocation, single-use reset-password identifiers, and OAuth CSRF
//     state. Single-use consumption maps onto the atomic GETDEL command.
//   - Healthcheck helpers for liveness and readiness probes.
//
// Configuration is described by the Config struct whose fields are
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	ctx := context.Background()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	cache := redis.NewTokenCache(client)
//
// # Errors
//
// The package defines several sentinel errors (e.g. ErrRedisNotReady) that
// wrap the underlying go-redis errors using errors.Join. Cache misses in
// TokenCache.GetAndDelete surface as auth.ErrNotFound, the sentinel the
// authentication core expects.
package redis
