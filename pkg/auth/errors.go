package auth

import "errors"

// Use-case errors. Everything the Authenticator returns belongs to this
// closed taxonomy; collaborator-specific errors are translated at the
// Authenticator boundary and never cross it.
var (
	// ErrInvalidCredentials merges absent user, absent password hash, and
	// hash mismatch so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrNotVerifiedAccount = errors.New("account email is not verified")

	// ErrInvalidToken covers every token rejection cause: bad signature,
	// expiry, kind mismatch, missing single-use identifier, already-redeemed
	// identifier, and OAuth CSRF state mismatch.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInternal wraps unclassified collaborator failures.
	ErrInternal = errors.New("internal error")

	// ErrUnsupportedProvider is returned when an OAuth provider is absent
	// from the configured client set.
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")

	// ErrNoProviderEmail is returned by a provider client when the profile
	// carries no usable email address.
	ErrNoProviderEmail = errors.New("no email from provider")
)

// Storage sentinel errors. Store implementations surface these distinctly;
// the Authenticator depends on telling ErrConflict apart to report
// ErrEmailAlreadyUsed. Any other store error counts as transient.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
