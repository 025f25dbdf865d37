package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore is the durable store for user accounts.
//
// Implementations return ErrNotFound for absent rows and ErrConflict for
// unique-constraint violations; any other error is treated as transient.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Insert(ctx context.Context, user *User) error

	// UpdatePassword replaces the stored password hash and reports whether
	// a row was changed.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (bool, error)

	// ConfirmEmail stamps the email confirmation time if not already set
	// and reports whether a row was changed. Re-confirming is a no-op, not
	// an error.
	ConfirmEmail(ctx context.Context, id uuid.UUID) (bool, error)

	List(ctx context.Context) ([]User, error)
}

// IdentityStore is the durable store for provider identities.
type IdentityStore interface {
	GetByProviderIdentity(ctx context.Context, provider Provider, providerUserID string) (*Identity, error)
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider Provider) (*Identity, error)
	Insert(ctx context.Context, identity *Identity) error

	// Upsert inserts the identity or, when the (provider, provider user id)
	// pair already exists, refreshes its email, confirmation flag, and
	// provider payload in place.
	Upsert(ctx context.Context, identity *Identity) error
}

// SessionStore persists sign-in sessions. Sessions are insert-only.
type SessionStore interface {
	Insert(ctx context.Context, session *Session) error
}

// TokenCache is the shared expiring key-value store backing refresh-token
// revocation, single-use reset-password identifiers, and OAuth CSRF state.
// In a multi-instance deployment it must be reachable from every instance.
type TokenCache interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetAndDelete atomically retrieves and removes the entry, returning
	// ErrNotFound when the key is absent. Under concurrent calls for the
	// same key, at most one caller receives the value. This single
	// primitive is what guarantees at-most-once redemption of single-use
	// tokens.
	GetAndDelete(ctx context.Context, key string) (string, error)

	// Delete removes the entry and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}

// Mailer delivers the authentication emails. Delivery failures are logged
// by the Authenticator and never propagate into use-case results.
type Mailer interface {
	SendConfirmationEmail(ctx context.Context, recipient, link string) error
	SendPasswordResetEmail(ctx context.Context, recipient, link string) error
}
