// Package auth is the identity-and-credential core of a multi-provider
// authentication service. It orchestrates sign-up, sign-in, sign-out,
// email confirmation, password reset, and OAuth identity resolution on top
// of injected collaborators: a durable store (users, identities, sessions),
// an expiring key-value cache (refresh-token revocation, single-use reset
// identifiers, OAuth CSRF state), a mailer, and per-provider OAuth clients.
//
// # Architecture
//
// The Authenticator owns every use case. It holds no state beyond its
// collaborator handles, so a single instance serves concurrent requests.
// Collaborator errors never cross the Authenticator boundary; they are
// translated into the package's error taxonomy (ErrInvalidCredentials,
// ErrEmailAlreadyUsed, ErrNotVerifiedAccount, ErrInvalidToken, ErrInternal).
//
// The OAuth CSRF handshake runs before the Authenticator's OAuth entry
// point: Handshake.Initiate produces a provider authorization URL plus an
// opaque cookie value, and Handshake.Callback validates the returned state
// against the stored CSRF token before any provider network call, producing
// an OrphanIdentity that feeds Authenticator.OAuthSignIn.
//
// # Consistency model
//
// No use case is transactional across the durable store and the cache. The
// one strict concurrency contract is the atomic get-and-delete on single-use
// cache entries: under concurrent redemption of the same reset-password
// token, exactly one call succeeds. Mail delivery is fire-and-forget; its
// failure is logged and never fails the triggering use case. Upgrading that
// to a durable outbox is a deliberate deployment-hardening step, not
// something this core papers over.
//
// # Example
//
//	authenticator := auth.NewAuthenticator(cfg, auth.Stores{
//		Users:      userStore,
//		Identities: identityStore,
//		Sessions:   sessionStore,
//	}, tokenCache, tokenFactory, mailer, auth.WithLogger(log))
//
//	userID, err := authenticator.SignUpWithEmail(ctx, email, password)
package auth
